package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/openshift/runtime-summary/pkg/apis/runtimesummary/v1"
)

const (
	EventPush        = "push"
	EventPullRequest = "pull_request"

	statusCompleted = "completed"

	// larger page size fewer requests counting against our api rate
	pageSize = 100
	// how many pages of runs to scan when looking for a specific head sha
	maxRunPages = 5

	jobCacheDuration = 7 * 24 * time.Hour
)

// Workflow is a repository workflow definition.
type Workflow struct {
	ID   int64
	Name string
}

// Workflows lists every workflow defined in the repository.
func (c *Client) Workflows(ctx context.Context, owner, repo string) ([]Workflow, error) {
	var workflows []Workflow
	opts := &gh.ListOptions{PerPage: pageSize}
	for {
		page, resp, err := c.workflowsList(ctx, owner, repo, opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "listing workflows for %s/%s", owner, repo)
		}
		if page != nil {
			for _, w := range page.Workflows {
				workflows = append(workflows, Workflow{ID: w.GetID(), Name: w.GetName()})
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return workflows, nil
		}
		opts.Page = resp.NextPage
	}
}

// TrackedWorkflows returns the repository workflows named in tracked, in the
// order of tracked. Tracked names with no matching workflow are logged and
// skipped.
func (c *Client) TrackedWorkflows(ctx context.Context, owner, repo string, tracked []string) ([]Workflow, error) {
	all, err := c.Workflows(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Workflow, len(all))
	for _, w := range all {
		if _, ok := byName[w.Name]; !ok {
			byName[w.Name] = w
		}
	}

	var workflows []Workflow
	seen := sets.New[string]()
	for _, name := range tracked {
		if seen.Has(name) {
			continue
		}
		seen.Insert(name)
		w, ok := byName[name]
		if !ok {
			log.WithField("owner", owner).
				WithField("repo", repo).
				WithField("workflow", name).
				Warn("tracked workflow not found in repository")
			continue
		}
		workflows = append(workflows, w)
	}
	return workflows, nil
}

// LatestJobs returns the completed jobs of the most recent run of each
// workflow for the branch and triggering event. When headSHA is set only runs
// for that commit are considered. Workflows without a matching run contribute
// no jobs.
func (c *Client) LatestJobs(ctx context.Context, owner, repo, branch, event, headSHA string, workflows []Workflow) ([]v1.JobRecord, error) {
	var jobs []v1.JobRecord
	for _, workflow := range workflows {
		logger := log.WithField("owner", owner).
			WithField("repo", repo).
			WithField("workflow", workflow.Name).
			WithField("branch", branch).
			WithField("event", event)

		run, err := c.latestRun(ctx, owner, repo, branch, event, headSHA, workflow)
		if err != nil {
			return nil, err
		}
		if run == nil {
			logger.Warn("no workflow run found")
			continue
		}

		runJobs, err := c.runJobs(ctx, owner, repo, workflow, run)
		if err != nil {
			return nil, err
		}
		logger.WithField("run", run.GetID()).Debugf("found %d completed jobs", len(runJobs))
		jobs = append(jobs, runJobs...)
	}
	return jobs, nil
}

func (c *Client) latestRun(ctx context.Context, owner, repo, branch, event, headSHA string, workflow Workflow) (*gh.WorkflowRun, error) {
	opts := &gh.ListWorkflowRunsOptions{
		Branch:      branch,
		Event:       event,
		ListOptions: gh.ListOptions{PerPage: pageSize},
	}
	if headSHA == "" {
		opts.PerPage = 1
	}

	for page := 0; page < maxRunPages; page++ {
		runs, resp, err := c.workflowRunsList(ctx, owner, repo, workflow.ID, opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "listing runs of workflow %q on %s", workflow.Name, branch)
		}
		if runs != nil {
			// runs are returned newest first
			for _, run := range runs.WorkflowRuns {
				if headSHA == "" || run.GetHeadSHA() == headSHA {
					return run, nil
				}
			}
		}
		if headSHA == "" || resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
	return nil, nil
}

func jobCacheKey(owner, repo string, runID int64) string {
	return fmt.Sprintf("%s/%s/runs/%d/jobs", owner, repo, runID)
}

// runJobs returns the completed jobs of a run. Job lists of completed runs no
// longer change, so they are served from and written to the cache.
func (c *Client) runJobs(ctx context.Context, owner, repo string, workflow Workflow, run *gh.WorkflowRun) ([]v1.JobRecord, error) {
	cacheable := c.cache != nil && run.GetStatus() == statusCompleted
	key := jobCacheKey(owner, repo, run.GetID())
	if cacheable {
		if jobs, ok := c.cachedJobs(key); ok {
			return jobs, nil
		}
	}

	var jobs []v1.JobRecord
	opts := &gh.ListWorkflowJobsOptions{
		Filter:      "latest",
		ListOptions: gh.ListOptions{PerPage: pageSize},
	}
	for {
		page, resp, err := c.workflowJobsList(ctx, owner, repo, run.GetID(), opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "listing jobs of run %d of workflow %q", run.GetID(), workflow.Name)
		}
		if page != nil {
			for _, job := range page.Jobs {
				if record, ok := jobRecord(workflow.Name, job); ok {
					jobs = append(jobs, record)
				}
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if cacheable {
		c.storeJobs(key, jobs)
	}
	return jobs, nil
}

func (c *Client) cachedJobs(key string) ([]v1.JobRecord, bool) {
	content, err := c.cache.Get(key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("could not read job cache")
		return nil, false
	}
	if content == nil {
		return nil, false
	}
	var jobs []v1.JobRecord
	if err := json.Unmarshal(content, &jobs); err != nil {
		log.WithError(err).WithField("key", key).Warn("discarding unreadable cached jobs")
		return nil, false
	}
	log.WithField("key", key).Debug("using cached jobs")
	return jobs, true
}

func (c *Client) storeJobs(key string, jobs []v1.JobRecord) {
	content, err := json.Marshal(jobs)
	if err != nil {
		log.WithError(err).Warn("could not encode jobs for cache")
		return
	}
	if err := c.cache.Set(key, content, jobCacheDuration); err != nil {
		log.WithError(err).WithField("key", key).Warn("could not write job cache")
	}
}

// jobRecord converts a completed job. Jobs that have not finished or lack
// timestamps have no runtime and are dropped.
func jobRecord(workflowName string, job *gh.WorkflowJob) (v1.JobRecord, bool) {
	if job == nil || job.GetStatus() != statusCompleted || job.StartedAt == nil || job.CompletedAt == nil {
		return v1.JobRecord{}, false
	}
	runtime := job.CompletedAt.Time.Sub(job.StartedAt.Time)
	if runtime < 0 {
		return v1.JobRecord{}, false
	}
	return v1.JobRecord{
		WorkflowName:    workflowName,
		JobName:         job.GetName(),
		DurationSeconds: uint64(runtime / time.Second),
	}, true
}
