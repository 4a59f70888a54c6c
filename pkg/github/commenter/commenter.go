package commenter

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"
)

// anyOrg holds repos configured without an org, which match in every org.
const anyOrg = ""

type commentClient interface {
	FindCommentByHeader(ctx context.Context, owner, repo string, number int, header string) (*int64, error)
	CreatePRComment(ctx context.Context, owner, repo string, number int, body string) error
	EditPRComment(ctx context.Context, owner, repo string, commentID int64, body string) error
}

// GitHubCommenter keeps a single comment per pull request up to date. The
// comment is recognized by its leading header line.
type GitHubCommenter struct {
	githubClient commentClient
	header       string
	dryRun       bool
	includeRepos map[string]sets.Set[string]
	excludeRepos map[string]sets.Set[string]
}

func NewGitHubCommenter(githubClient commentClient, header string, dryRun bool, excludedRepos, includedRepos []string) (*GitHubCommenter, error) {
	ghCommenter := &GitHubCommenter{
		githubClient: githubClient,
		header:       header,
		dryRun:       dryRun,
	}

	var err error
	ghCommenter.excludeRepos, err = buildOrgRepos(excludedRepos)
	if err != nil {
		log.WithError(err).Error("Failed GitHub commenter initialization")
		return nil, err
	}

	ghCommenter.includeRepos, err = buildOrgRepos(includedRepos)
	if err != nil {
		log.WithError(err).Error("Failed GitHub commenter initialization")
		return nil, err
	}

	return ghCommenter, nil
}

func buildOrgRepos(in []string) (map[string]sets.Set[string], error) {
	if len(in) < 1 {
		return nil, nil
	}

	out := make(map[string]sets.Set[string])

	for _, r := range in {
		ar := strings.Split(r, `/`)
		var org, repo string

		switch {
		case len(ar) > 2 || r == "":
			return nil, fmt.Errorf("invalid OrgRepo setting: %q", r)
		case len(ar) < 2:
			org = anyOrg
			repo = r
		default:
			org = ar[0]
			repo = ar[1]
		}

		if out[org] == nil {
			out[org] = sets.New[string]()
		}
		out[org].Insert(repo)
	}

	return out, nil
}

func hasRepo(orgRepos map[string]sets.Set[string], org, repo string) bool {
	return orgRepos[org].Has(repo) || orgRepos[anyOrg].Has(repo)
}

func (ghc *GitHubCommenter) IsRepoIncluded(org, repo string) bool {
	// explicit exclusion wins over inclusion
	if ghc.excludeRepos != nil && hasRepo(ghc.excludeRepos, org, repo) {
		return false
	}

	// without an include list everything not excluded is included
	if ghc.includeRepos == nil {
		return true
	}

	return hasRepo(ghc.includeRepos, org, repo)
}

// Upsert replaces the body of the existing summary comment on the pull
// request, or creates one when there is none. body must start with the
// commenter's header so later runs can find it again.
func (ghc *GitHubCommenter) Upsert(ctx context.Context, org, repo string, number int, body string) error {
	logger := log.WithField("org", org).
		WithField("repo", repo).
		WithField("number", number)

	if !ghc.IsRepoIncluded(org, repo) {
		logger.Info("repo not included for commenting, skipping")
		return nil
	}
	if !strings.HasPrefix(body, ghc.header) {
		return fmt.Errorf("comment body does not start with header %q", ghc.header)
	}

	existingID, err := ghc.githubClient.FindCommentByHeader(ctx, org, repo, number, ghc.header)
	if err != nil {
		return err
	}

	if ghc.dryRun {
		logger.WithField("update", existingID != nil).Infof("dry run, would write comment:\n%s", body)
		return nil
	}

	if existingID != nil {
		logger.WithField("comment", *existingID).Info("updating existing comment")
		return ghc.githubClient.EditPRComment(ctx, org, repo, *existingID, body)
	}

	logger.Info("creating comment")
	return ghc.githubClient.CreatePRComment(ctx, org, repo, number, body)
}
