package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
	"github.com/openshift/runtime-summary/pkg/github"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

var testPRContext = github.PRContext{
	Owner:      "linera-io",
	Repo:       "linera-protocol",
	Number:     42,
	BaseBranch: "main",
	HeadBranch: "feature",
	HeadSHA:    "96dcf2b704502a0b05c4bbff5e8c9bb836449fa6",
}

func testDocument(t *testing.T) Document {
	result, err := runtimecomparison.Build([]string{"Rust", "Docker"},
		[]v1.JobRecord{
			{WorkflowName: "Docker", JobName: "image", DurationSeconds: 600},
			{WorkflowName: "Rust", JobName: "build", DurationSeconds: 100},
			{WorkflowName: "Rust", JobName: "test|unit", DurationSeconds: 3723},
		},
		[]v1.JobRecord{
			{WorkflowName: "Rust", JobName: "test|unit", DurationSeconds: 3600},
			{WorkflowName: "Rust", JobName: "build", DurationSeconds: 150},
			{WorkflowName: "Docker", JobName: "image", DurationSeconds: 600},
		},
		runtimecomparison.Options{})
	require.NoError(t, err)
	return NewDocument(testPRContext, result, runtimecomparison.Summarize(result, runtimecomparison.DefaultRegressionThreshold))
}

func TestDocument_Markdown(t *testing.T) {
	expected := `## Performance Summary for commit [96dcf2b](https://github.com/linera-io/linera-protocol/commit/96dcf2b704502a0b05c4bbff5e8c9bb836449fa6)

### CI Runtime Comparison

Compared 3 jobs against ` + "`main`" + `: 1 slower, 0 faster, median change 0.00%.

Largest regression: ` + "`Rust` / `build`" + ` (50.00%).

#### Workflow: Rust

| Job Name | Base Runtime | PR Runtime | Runtime Difference (%) |
|---|---|---|---|
| build | 1m 40s | 2m 30s | 50.00% |
| test\|unit | 1h 2m 3s | 1h | -3.30% |

#### Workflow: Docker

| Job Name | Base Runtime | PR Runtime | Runtime Difference (%) |
|---|---|---|---|
| image | 10m | 10m | 0.00% |

`
	doc := testDocument(t)
	assert.Equal(t, expected, doc.Markdown())
	// rendering is stable
	assert.Equal(t, doc.Markdown(), testDocument(t).Markdown())
	assert.True(t, strings.HasPrefix(doc.Markdown(), Header))
}

func TestDocument_MarkdownEmpty(t *testing.T) {
	doc := NewDocument(testPRContext, &v1.ComparisonResult{}, runtimecomparison.Summary{})
	md := doc.Markdown()
	assert.True(t, strings.HasPrefix(md, Header))
	assert.Contains(t, md, noMatchesNote)
	assert.NotContains(t, md, "#### Workflow")
}

func TestDocument_Write(t *testing.T) {
	doc := testDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf, FormatJSON))
	var decoded Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "linera-io", decoded.Owner)
	assert.Equal(t, doc.Result, decoded.Result)

	buf.Reset()
	require.NoError(t, doc.Write(&buf, FormatYAML))
	decoded = Document{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, doc.Summary, decoded.Summary)
	assert.Equal(t, []string{"Rust", "Docker"}, []string{decoded.Result.Workflows[0].WorkflowName, decoded.Result.Workflows[1].WorkflowName})

	buf.Reset()
	require.NoError(t, doc.Write(&buf, ""))
	assert.Equal(t, doc.Markdown(), buf.String())

	assert.Error(t, doc.Write(&buf, "html"))
}

func TestFormatDuration(t *testing.T) {
	tests := map[uint64]string{
		0:     "0s",
		5:     "5s",
		60:    "1m",
		100:   "1m 40s",
		3600:  "1h",
		3605:  "1h 5s",
		3723:  "1h 2m 3s",
		90000: "25h",
	}
	for seconds, expected := range tests {
		assert.Equal(t, expected, FormatDuration(seconds), "seconds=%d", seconds)
	}
}
