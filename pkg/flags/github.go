package flags

import (
	"github.com/spf13/pflag"

	"github.com/openshift/runtime-summary/pkg/github"
)

// GitHubFlags identify the pull request and branches to compare. Unset values
// are taken from the GitHub Actions environment.
type GitHubFlags struct {
	Repository string
	Number     int
	BaseBranch string
	HeadBranch string
	HeadSHA    string
}

func NewGitHubFlags() *GitHubFlags {
	return &GitHubFlags{}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Repository, "repository", f.Repository, "Repository as owner/repo (default $GITHUB_REPOSITORY)")
	fs.IntVar(&f.Number, "pr-number", f.Number, "Pull request number (default from the event payload)")
	fs.StringVar(&f.BaseBranch, "base-branch", f.BaseBranch, "Branch whose latest push run is the baseline (default $GITHUB_BASE_REF)")
	fs.StringVar(&f.HeadBranch, "head-branch", f.HeadBranch, "Pull request branch (default $GITHUB_HEAD_REF)")
	fs.StringVar(&f.HeadSHA, "head-sha", f.HeadSHA, "Pull request commit; restricts candidate runs to this commit (default from the event payload)")
}

// GetPRContext overlays the flags on the environment.
func (f *GitHubFlags) GetPRContext() (github.PRContext, error) {
	prc, err := github.PRContextFromEnvironment()
	if err != nil {
		return prc, err
	}

	if f.Repository != "" {
		prc.Owner, prc.Repo, err = github.SplitRepository(f.Repository)
		if err != nil {
			return prc, err
		}
	}
	if f.Number != 0 {
		prc.Number = f.Number
	}
	if f.BaseBranch != "" {
		prc.BaseBranch = f.BaseBranch
	}
	if f.HeadBranch != "" {
		prc.HeadBranch = f.HeadBranch
	}
	if f.HeadSHA != "" {
		prc.HeadSHA = f.HeadSHA
	}
	return prc, nil
}
