package flags

import (
	"github.com/spf13/pflag"
)

// GithubCommenterFlags holds configuration information for filtering Github repository.
type GithubCommenterFlags struct {
	IncludeReposCommenting []string
	ExcludeReposCommenting []string
	CommentDryRun          bool
}

func NewGithubCommenterFlags() *GithubCommenterFlags {
	return &GithubCommenterFlags{}
}

func (f *GithubCommenterFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringArrayVar(&f.IncludeReposCommenting, "include-repo-commenting", f.IncludeReposCommenting, "Which repos do we include for pr commenting (one repo per arg instance  org/repo or just repo for any org)")
	fs.StringArrayVar(&f.ExcludeReposCommenting, "exclude-repo-commenting", f.ExcludeReposCommenting, "Which repos do we skip for pr commenting (one repo per arg instance  org/repo or just repo for any org)")
	fs.BoolVar(&f.CommentDryRun, "comment-dry-run", f.CommentDryRun, "Log the comment instead of writing it to the pull request")
}
