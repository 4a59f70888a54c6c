package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/openshift/runtime-summary/pkg/report"
)

func NewCompareCommand() *cobra.Command {
	f := NewSummaryFlags()
	var output string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare job runtimes and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Complete(cmd.Flags()); err != nil {
				return errors.WithMessage(err, "error validating options")
			}

			ctx, cancel := context.WithTimeout(context.Background(), f.Timeout)
			defer cancel()

			ps, _, err := f.GetPerformanceSummary(ctx, false)
			if err != nil {
				return err
			}
			defer ps.PushMetrics()

			doc, err := ps.Build(ctx)
			if err != nil {
				return err
			}
			return doc.Write(os.Stdout, output)
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", report.FormatMarkdown, "Output format; available options are 'markdown', 'json' and 'yaml'")
	return cmd
}
