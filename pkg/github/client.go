package github

import (
	"context"
	"net/http"
	"os"
	"strconv"

	gh "github.com/google/go-github/v45/github"
	ghauth "github.com/jferrl/go-githubauth"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"

	"github.com/openshift/runtime-summary/pkg/apis/cache"
)

// if we have fewer than this threshold remaining we will report rate limited
const rateLimitThreshold = 100

// Client talks to the GitHub REST API. The API calls are function fields so
// tests can replace them without a server.
type Client struct {
	cache cache.Cache

	workflowsList    func(ctx context.Context, owner, repo string, opts *gh.ListOptions) (*gh.Workflows, *gh.Response, error)
	workflowRunsList func(ctx context.Context, owner, repo string, workflowID int64, opts *gh.ListWorkflowRunsOptions) (*gh.WorkflowRuns, *gh.Response, error)
	workflowJobsList func(ctx context.Context, owner, repo string, runID int64, opts *gh.ListWorkflowJobsOptions) (*gh.Jobs, *gh.Response, error)
	commentsList     func(ctx context.Context, owner, repo string, number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error)
	commentCreate    func(ctx context.Context, owner, repo string, number int, body string) (*gh.IssueComment, error)
	commentEdit      func(ctx context.Context, owner, repo string, commentID int64, body string) (*gh.IssueComment, error)
	coreRateFetch    func(ctx context.Context) (*gh.Rate, error)
}

// New creates a client authenticated from the environment. jobCache may be nil.
func New(ctx context.Context, jobCache cache.Cache) *Client {
	return newClient(gh.NewClient(newGHAuthClient(ctx)), jobCache)
}

func newClient(ghc *gh.Client, jobCache cache.Cache) *Client {
	client := &Client{cache: jobCache}

	client.workflowsList = func(ctx context.Context, owner, repo string, opts *gh.ListOptions) (*gh.Workflows, *gh.Response, error) {
		return ghc.Actions.ListWorkflows(ctx, owner, repo, opts)
	}

	client.workflowRunsList = func(ctx context.Context, owner, repo string, workflowID int64, opts *gh.ListWorkflowRunsOptions) (*gh.WorkflowRuns, *gh.Response, error) {
		return ghc.Actions.ListWorkflowRunsByID(ctx, owner, repo, workflowID, opts)
	}

	client.workflowJobsList = func(ctx context.Context, owner, repo string, runID int64, opts *gh.ListWorkflowJobsOptions) (*gh.Jobs, *gh.Response, error) {
		return ghc.Actions.ListWorkflowJobs(ctx, owner, repo, runID, opts)
	}

	client.commentsList = func(ctx context.Context, owner, repo string, number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error) {
		return ghc.Issues.ListComments(ctx, owner, repo, number, opts)
	}

	client.commentCreate = func(ctx context.Context, owner, repo string, number int, body string) (*gh.IssueComment, error) {
		comment, _, err := ghc.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{Body: &body})
		return comment, err
	}

	client.commentEdit = func(ctx context.Context, owner, repo string, commentID int64, body string) (*gh.IssueComment, error) {
		comment, _, err := ghc.Issues.EditComment(ctx, owner, repo, commentID, &gh.IssueComment{Body: &body})
		return comment, err
	}

	client.coreRateFetch = func(ctx context.Context) (*gh.Rate, error) {
		rateLimits, _, err := ghc.RateLimits(ctx)
		if err != nil {
			return nil, err
		}
		if rateLimits == nil {
			return nil, nil
		}
		return rateLimits.Core, nil
	}

	return client
}

func newGHAuthClient(ctx context.Context) *http.Client {
	if tokenSource := newInstallationTokenSource(ctx); tokenSource != nil {
		log.Info("using GitHub App credentials")
		return oauth2.NewClient(ctx, tokenSource)
	}

	// no app creds, try to use a personal access token
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Info("No GitHub token environment variable, checking git config")
		var err error
		token, err = gitconfig.GithubToken()
		if err != nil {
			log.WithError(err).Warning("unable to retrieve GitHub token from git config")
		}
	}
	if token != "" {
		log.Info("using GitHub access token")
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		return oauth2.NewClient(ctx, ts)
	}

	// make a no-auth client if no token is available
	log.Warning("using unauthenticated GitHub client, requests will be rate-limited")
	return nil
}

func newInstallationTokenSource(ctx context.Context) oauth2.TokenSource {
	privateKey := os.Getenv("GITHUB_APP_PRIVATE_KEY")
	if privateKey == "" {
		log.Debug("missing GITHUB_APP_PRIVATE_KEY, will not authenticate as GitHub App")
		return nil
	}
	appID, err := strconv.ParseInt(os.Getenv("GITHUB_APP_ID"), 10, 64)
	if err != nil {
		log.WithError(err).Error("invalid GITHUB_APP_ID")
		return nil
	}
	installationID, err := strconv.ParseInt(os.Getenv("GITHUB_APP_INSTALLATION_ID"), 10, 64)
	if err != nil {
		log.WithError(err).Error("invalid GITHUB_APP_INSTALLATION_ID")
		return nil
	}

	appTokenSource, err := ghauth.NewApplicationTokenSource(appID, []byte(privateKey))
	if err != nil {
		log.WithError(err).Error("error creating application token source")
		return nil
	}
	return ghauth.NewInstallationTokenSource(installationID, appTokenSource, ghauth.WithContext(ctx))
}

// IsRateLimited reports whether the remaining core API quota is below the
// threshold. Failing to read the quota counts as rate limited.
func (c *Client) IsRateLimited(ctx context.Context) bool {
	rate, err := c.coreRateFetch(ctx)
	if err != nil {
		log.WithError(err).Warn("could not fetch GitHub rate limit")
		return true
	}
	if rate == nil {
		return true
	}

	log.Infof("Github Limit:%d, Remaining:%d", rate.Limit, rate.Remaining)

	return rate.Remaining < rateLimitThreshold
}
