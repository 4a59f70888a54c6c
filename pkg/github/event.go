package github

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// PRContext identifies the pull request being summarized and the branches
// whose runs are compared.
type PRContext struct {
	Owner      string
	Repo       string
	Number     int
	BaseBranch string
	HeadBranch string
	HeadSHA    string
}

// PRContextFromEnvironment builds a PRContext from the variables GitHub
// Actions sets for a job. Values missing from the environment are taken from
// the event payload at GITHUB_EVENT_PATH, which may come from either a
// pull_request or a workflow_run event.
func PRContextFromEnvironment() (PRContext, error) {
	prc := PRContext{
		BaseBranch: os.Getenv("GITHUB_BASE_REF"),
		HeadBranch: os.Getenv("GITHUB_HEAD_REF"),
	}
	if repository := os.Getenv("GITHUB_REPOSITORY"); repository != "" {
		var err error
		prc.Owner, prc.Repo, err = SplitRepository(repository)
		if err != nil {
			return prc, err
		}
	}

	if eventPath := os.Getenv("GITHUB_EVENT_PATH"); eventPath != "" {
		payload, err := os.ReadFile(eventPath)
		if err != nil {
			return prc, errors.WithMessage(err, "could not read event payload")
		}
		prc.MergeEvent(payload)
	}
	return prc, nil
}

// MergeEvent fills unset fields from a GitHub event payload.
func (p *PRContext) MergeEvent(payload []byte) {
	if !gjson.ValidBytes(payload) {
		return
	}
	event := gjson.ParseBytes(payload)

	pr := event.Get("pull_request")
	if !pr.Exists() {
		// workflow_run events carry the pull requests of the triggering run
		pr = event.Get("workflow_run.pull_requests.0")
		if p.HeadSHA == "" {
			p.HeadSHA = event.Get("workflow_run.head_sha").String()
		}
	}
	if !pr.Exists() {
		return
	}

	if p.Number == 0 {
		p.Number = int(pr.Get("number").Int())
	}
	if p.BaseBranch == "" {
		p.BaseBranch = pr.Get("base.ref").String()
	}
	if p.HeadBranch == "" {
		p.HeadBranch = pr.Get("head.ref").String()
	}
	if p.HeadSHA == "" {
		p.HeadSHA = pr.Get("head.sha").String()
	}
	if p.Owner == "" || p.Repo == "" {
		if full := pr.Get("base.repo.full_name").String(); full != "" {
			if owner, repo, err := SplitRepository(full); err == nil {
				p.Owner, p.Repo = owner, repo
			}
		}
	}
}

// Validate checks the fields needed to fetch runs, and when forComment is
// set, those needed to address the pull request comment.
func (p PRContext) Validate(forComment bool) error {
	var missing []string
	if p.Owner == "" || p.Repo == "" {
		missing = append(missing, "repository")
	}
	if p.BaseBranch == "" {
		missing = append(missing, "base branch")
	}
	if p.HeadBranch == "" {
		missing = append(missing, "head branch")
	}
	if forComment {
		if p.Number <= 0 {
			missing = append(missing, "pull request number")
		}
		if p.HeadSHA == "" {
			missing = append(missing, "head sha")
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("incomplete pull request context, missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (p PRContext) ShortSHA() string {
	if len(p.HeadSHA) > 7 {
		return p.HeadSHA[:7]
	}
	return p.HeadSHA
}

func (p PRContext) CommitURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/commit/%s", p.Owner, p.Repo, p.HeadSHA)
}

// SplitRepository splits an owner/repo string.
func SplitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository %q, expected owner/repo", repository)
	}
	return parts[0], parts[1], nil
}
