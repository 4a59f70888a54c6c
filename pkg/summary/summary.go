package summary

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
	"github.com/openshift/runtime-summary/pkg/github"
	"github.com/openshift/runtime-summary/pkg/report"
	"github.com/openshift/runtime-summary/pkg/runtimecomparison"
)

// JobSource fetches job records from the CI provider.
type JobSource interface {
	TrackedWorkflows(ctx context.Context, owner, repo string, tracked []string) ([]github.Workflow, error)
	LatestJobs(ctx context.Context, owner, repo, branch, event, headSHA string, workflows []github.Workflow) ([]v1.JobRecord, error)
	IsRateLimited(ctx context.Context) bool
}

// Publisher delivers a rendered summary to the pull request.
type Publisher interface {
	Upsert(ctx context.Context, org, repo string, number int, body string) error
}

// PerformanceSummary compares the latest push run of the base branch with
// the latest pull request run of the head branch.
type PerformanceSummary struct {
	source           JobSource
	prc              github.PRContext
	trackedWorkflows []string
	opts             runtimecomparison.Options
	threshold        float64
}

func New(source JobSource, prc github.PRContext, trackedWorkflows []string, opts runtimecomparison.Options, threshold float64) *PerformanceSummary {
	return &PerformanceSummary{
		source:           source,
		prc:              prc,
		trackedWorkflows: trackedWorkflows,
		opts:             opts,
		threshold:        threshold,
	}
}

// Build fetches both sides and compares them. Any fetch failure aborts the
// whole run; the comparison never sees partial data.
func (p *PerformanceSummary) Build(ctx context.Context) (report.Document, error) {
	logger := log.WithField("owner", p.prc.Owner).
		WithField("repo", p.prc.Repo).
		WithField("base", p.prc.BaseBranch).
		WithField("head", p.prc.HeadBranch)

	if p.source.IsRateLimited(ctx) {
		logger.Warn("GitHub API quota is nearly exhausted, fetching may fail")
	}

	workflows, err := p.source.TrackedWorkflows(ctx, p.prc.Owner, p.prc.Repo, p.trackedWorkflows)
	if err != nil {
		return report.Document{}, err
	}
	if len(workflows) == 0 {
		return report.Document{}, errors.Errorf("none of the tracked workflows %v exist in %s/%s", p.trackedWorkflows, p.prc.Owner, p.prc.Repo)
	}

	var baseJobs, candidateJobs []v1.JobRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		baseJobs, err = p.fetch(gctx, "base", p.prc.BaseBranch, github.EventPush, "", workflows)
		return err
	})
	g.Go(func() error {
		var err error
		candidateJobs, err = p.fetch(gctx, "candidate", p.prc.HeadBranch, github.EventPullRequest, p.prc.HeadSHA, workflows)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Document{}, err
	}
	logger.Infof("fetched %d base jobs and %d candidate jobs", len(baseJobs), len(candidateJobs))

	result, err := runtimecomparison.Build(p.trackedWorkflows, baseJobs, candidateJobs, p.opts)
	if err != nil {
		return report.Document{}, errors.WithMessage(err, "could not compare runtimes")
	}
	summary := runtimecomparison.Summarize(result, p.threshold)
	if result.Empty() {
		logger.Warn("no jobs in common between base and candidate runs")
	}

	recordComparison(p.prc, result, summary)
	return report.NewDocument(p.prc, result, summary), nil
}

func (p *PerformanceSummary) fetch(ctx context.Context, side, branch, event, headSHA string, workflows []github.Workflow) ([]v1.JobRecord, error) {
	start := time.Now()
	jobs, err := p.source.LatestJobs(ctx, p.prc.Owner, p.prc.Repo, branch, event, headSHA, workflows)
	fetchMetric.WithLabelValues(side).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, errors.WithMessagef(err, "could not fetch %s jobs", side)
	}
	return jobs, nil
}

// Publish builds the summary and upserts it as the pull request comment.
// Nothing is published when building fails.
func (p *PerformanceSummary) Publish(ctx context.Context, publisher Publisher) error {
	defer p.PushMetrics()

	doc, err := p.Build(ctx)
	if err != nil {
		return err
	}
	return publisher.Upsert(ctx, p.prc.Owner, p.prc.Repo, p.prc.Number, doc.Markdown())
}

// PushMetrics sends the metrics recorded so far to the pushgateway, when one
// is configured.
func (p *PerformanceSummary) PushMetrics() {
	pushMetrics(p.prc)
}
