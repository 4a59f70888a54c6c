package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/openshift/runtime-summary/pkg/flags"
	"github.com/openshift/runtime-summary/pkg/flags/configflags"
	"github.com/openshift/runtime-summary/pkg/github"
	"github.com/openshift/runtime-summary/pkg/summary"
)

// SummaryFlags are shared by every command that builds a summary.
type SummaryFlags struct {
	ConfigFlags     *configflags.ConfigFlags
	CacheFlags      *flags.CacheFlags
	ComparisonFlags *flags.ComparisonFlags
	GitHubFlags     *flags.GitHubFlags

	Timeout time.Duration
}

func NewSummaryFlags() *SummaryFlags {
	return &SummaryFlags{
		ConfigFlags:     configflags.NewConfigFlags(),
		CacheFlags:      flags.NewCacheFlags(),
		ComparisonFlags: flags.NewComparisonFlags(),
		GitHubFlags:     flags.NewGitHubFlags(),
		Timeout:         10 * time.Minute,
	}
}

func (f *SummaryFlags) BindFlags(fs *pflag.FlagSet) {
	f.ConfigFlags.BindFlags(fs)
	f.CacheFlags.BindFlags(fs)
	f.ComparisonFlags.BindFlags(fs)
	f.GitHubFlags.BindFlags(fs)

	fs.DurationVar(&f.Timeout, "timeout", f.Timeout, "Give up fetching runs after this long")
}

// Complete merges the config file into the flags and validates the result.
func (f *SummaryFlags) Complete(fs *pflag.FlagSet) error {
	cfg, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}
	f.ComparisonFlags.ApplyConfig(fs, cfg)
	return f.ComparisonFlags.Validate()
}

// GetPerformanceSummary wires a GitHub backed summary for the pull request.
func (f *SummaryFlags) GetPerformanceSummary(ctx context.Context, forComment bool) (*summary.PerformanceSummary, *github.Client, error) {
	prc, err := f.GitHubFlags.GetPRContext()
	if err != nil {
		return nil, nil, err
	}
	if err := prc.Validate(forComment); err != nil {
		return nil, nil, err
	}

	jobCache, err := f.CacheFlags.GetCacheClient()
	if err != nil {
		return nil, nil, errors.WithMessage(err, "couldn't get cache client")
	}

	client := github.New(ctx, jobCache)
	ps := summary.New(client, prc, f.ComparisonFlags.TrackedWorkflows, f.ComparisonFlags.Options(), f.ComparisonFlags.RegressionThreshold)
	return ps, client, nil
}
