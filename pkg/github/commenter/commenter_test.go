package commenter

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "## Performance Summary for commit"

type fakeClient struct {
	existing *int64
	findErr  error
	created  []string
	edited   map[int64]string
}

func (f *fakeClient) FindCommentByHeader(_ context.Context, _, _ string, _ int, h string) (*int64, error) {
	if h != header {
		return nil, fmt.Errorf("unexpected header %q", h)
	}
	return f.existing, f.findErr
}

func (f *fakeClient) CreatePRComment(_ context.Context, _, _ string, _ int, body string) error {
	f.created = append(f.created, body)
	return nil
}

func (f *fakeClient) EditPRComment(_ context.Context, _, _ string, commentID int64, body string) error {
	if f.edited == nil {
		f.edited = map[int64]string{}
	}
	f.edited[commentID] = body
	return nil
}

func TestGitHubCommenter_IsRepoIncluded(t *testing.T) {

	tests := []struct {
		name           string
		include        []string
		exclude        []string
		org            string
		repo           string
		expectIncluded bool
	}{
		{
			name:           "test excluded",
			include:        []string{`org1/repo2`},
			exclude:        []string{`org1/repo1`},
			org:            "org1",
			repo:           "repo1",
			expectIncluded: false,
		},
		{
			name:           "test included AND excluded",
			include:        []string{`org1/repo1`},
			exclude:        []string{`org1/repo1`},
			org:            "org1",
			repo:           "repo1",
			expectIncluded: false,
		},
		{
			name:           "test included",
			include:        []string{`org1/repo2`},
			exclude:        []string{`org1/repo1`},
			org:            "org1",
			repo:           "repo2",
			expectIncluded: true,
		},
		{
			name:           "test NOT included with include",
			include:        []string{`org1/repo2`},
			org:            "org1",
			repo:           "repo3",
			expectIncluded: false,
		},
		{
			name:           "test NOT included WITHOUT include",
			exclude:        []string{`org1/repo1`},
			org:            "org1",
			repo:           "repo3",
			expectIncluded: true,
		},
		{
			name:           "test repo without org included in any org",
			include:        []string{`repo1`},
			org:            "org2",
			repo:           "repo1",
			expectIncluded: true,
		},
		{
			name:           "test repo without org excluded in any org",
			exclude:        []string{`repo1`},
			org:            "org2",
			repo:           "repo1",
			expectIncluded: false,
		},
		{
			name:           "test nothing configured",
			org:            "org2",
			repo:           "repo1",
			expectIncluded: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ghc, err := NewGitHubCommenter(&fakeClient{}, header, false, tt.exclude, tt.include)
			require.NoError(t, err)
			assert.Equal(t, tt.expectIncluded, ghc.IsRepoIncluded(tt.org, tt.repo))
		})
	}
}

func TestNewGitHubCommenterInvalidRepo(t *testing.T) {
	_, err := NewGitHubCommenter(&fakeClient{}, header, false, []string{"a/b/c"}, nil)
	assert.Error(t, err)
}

func TestGitHubCommenter_Upsert(t *testing.T) {
	body := header + " [abc1234](url)\n"
	existingID := int64(99)

	t.Run("creates when missing", func(t *testing.T) {
		client := &fakeClient{}
		ghc, err := NewGitHubCommenter(client, header, false, nil, nil)
		require.NoError(t, err)
		require.NoError(t, ghc.Upsert(context.TODO(), "org", "repo", 1, body))
		assert.Equal(t, []string{body}, client.created)
		assert.Empty(t, client.edited)
	})

	t.Run("edits existing", func(t *testing.T) {
		client := &fakeClient{existing: &existingID}
		ghc, err := NewGitHubCommenter(client, header, false, nil, nil)
		require.NoError(t, err)
		require.NoError(t, ghc.Upsert(context.TODO(), "org", "repo", 1, body))
		assert.Empty(t, client.created)
		assert.Equal(t, map[int64]string{99: body}, client.edited)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		client := &fakeClient{existing: &existingID}
		ghc, err := NewGitHubCommenter(client, header, true, nil, nil)
		require.NoError(t, err)
		require.NoError(t, ghc.Upsert(context.TODO(), "org", "repo", 1, body))
		assert.Empty(t, client.created)
		assert.Empty(t, client.edited)
	})

	t.Run("excluded repo is skipped", func(t *testing.T) {
		client := &fakeClient{}
		ghc, err := NewGitHubCommenter(client, header, false, []string{"org/repo"}, nil)
		require.NoError(t, err)
		require.NoError(t, ghc.Upsert(context.TODO(), "org", "repo", 1, body))
		assert.Empty(t, client.created)
	})

	t.Run("body without header is rejected", func(t *testing.T) {
		client := &fakeClient{}
		ghc, err := NewGitHubCommenter(client, header, false, nil, nil)
		require.NoError(t, err)
		assert.Error(t, ghc.Upsert(context.TODO(), "org", "repo", 1, "hello"))
		assert.Empty(t, client.created)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		client := &fakeClient{findErr: fmt.Errorf("forbidden")}
		ghc, err := NewGitHubCommenter(client, header, false, nil, nil)
		require.NoError(t, err)
		assert.Error(t, ghc.Upsert(context.TODO(), "org", "repo", 1, body))
		assert.Empty(t, client.created)
	})
}
