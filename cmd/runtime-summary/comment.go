package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/openshift/runtime-summary/pkg/flags"
	"github.com/openshift/runtime-summary/pkg/github/commenter"
	"github.com/openshift/runtime-summary/pkg/report"
)

func NewCommentCommand() *cobra.Command {
	f := NewSummaryFlags()
	commenterFlags := flags.NewGithubCommenterFlags()

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Compare job runtimes and upsert the report as a pull request comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Complete(cmd.Flags()); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
			defer cancel()

			ps, client, err := f.GetPerformanceSummary(ctx, true)
			if err != nil {
				return err
			}

			ghc, err := commenter.NewGitHubCommenter(client, report.Header,
				commenterFlags.CommentDryRun,
				commenterFlags.ExcludeReposCommenting,
				commenterFlags.IncludeReposCommenting)
			if err != nil {
				return errors.WithMessage(err, "couldn't create GitHub commenter")
			}

			return ps.Publish(ctx, ghc)
		},
	}

	f.BindFlags(cmd.Flags())
	commenterFlags.BindFlags(cmd.Flags())
	return cmd
}
