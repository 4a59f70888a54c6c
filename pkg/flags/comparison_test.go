package flags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/runtime-summary/pkg/flags/configflags"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

const testConfig = `trackedWorkflows:
  - Rust
  - Docker
duplicatePolicy: longest
zeroBaseRuntime: reject
regressionThreshold: 25
`

func TestComparisonFlags_ApplyConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	tests := []struct {
		name     string
		args     []string
		expected ComparisonFlags
	}{
		{
			name: "config only",
			args: []string{"--config", path},
			expected: ComparisonFlags{
				TrackedWorkflows:    []string{"Rust", "Docker"},
				DuplicatePolicy:     "longest",
				ZeroBaseRuntime:     "reject",
				RegressionThreshold: 25,
			},
		},
		{
			name: "flags win over config",
			args: []string{"--config", path, "--workflow", "Docs", "--duplicate-policy", "shortest", "--regression-threshold", "5"},
			expected: ComparisonFlags{
				TrackedWorkflows:    []string{"Docs"},
				DuplicatePolicy:     "shortest",
				ZeroBaseRuntime:     "reject",
				RegressionThreshold: 5,
			},
		},
		{
			name: "defaults without config",
			args: []string{"--workflow", "Rust", "--workflow", "Docs"},
			expected: ComparisonFlags{
				TrackedWorkflows:    []string{"Rust", "Docs"},
				DuplicatePolicy:     "last-observed",
				ZeroBaseRuntime:     "skip",
				RegressionThreshold: runtimecomparison.DefaultRegressionThreshold,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet(tt.name, pflag.ContinueOnError)
			configFlags := configflags.NewConfigFlags()
			comparisonFlags := NewComparisonFlags()
			configFlags.BindFlags(fs)
			comparisonFlags.BindFlags(fs)
			require.NoError(t, fs.Parse(tt.args))

			cfg, err := configFlags.GetConfig()
			require.NoError(t, err)
			comparisonFlags.ApplyConfig(fs, cfg)

			assert.Equal(t, tt.expected, *comparisonFlags)
			assert.NoError(t, comparisonFlags.Validate())
		})
	}
}

func TestComparisonFlags_Validate(t *testing.T) {
	f := NewComparisonFlags()
	assert.Error(t, f.Validate(), "no workflows")

	f.TrackedWorkflows = []string{"Rust"}
	assert.NoError(t, f.Validate())

	f.DuplicatePolicy = "first"
	assert.Error(t, f.Validate())

	f.DuplicatePolicy = "reject"
	f.RegressionThreshold = -1
	assert.Error(t, f.Validate())
}

func TestGitHubFlags_GetPRContext(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "org/repo")
	t.Setenv("GITHUB_BASE_REF", "main")
	t.Setenv("GITHUB_HEAD_REF", "topic")
	t.Setenv("GITHUB_EVENT_PATH", "")

	f := NewGitHubFlags()
	f.Repository = "other/project"
	f.Number = 12
	f.HeadSHA = "abcdef0123"

	prc, err := f.GetPRContext()
	require.NoError(t, err)
	assert.Equal(t, "other", prc.Owner)
	assert.Equal(t, "project", prc.Repo)
	assert.Equal(t, 12, prc.Number)
	assert.Equal(t, "main", prc.BaseBranch)
	assert.Equal(t, "topic", prc.HeadBranch)
	assert.Equal(t, "abcdef0123", prc.HeadSHA)

	f.Repository = "not-a-repo"
	_, err = f.GetPRContext()
	assert.Error(t, err)
}
