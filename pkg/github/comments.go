package github

import (
	"context"
	"strings"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
)

// FindCommentByHeader returns the ID of the first comment on the pull request
// whose body starts with header, or nil if there is none.
func (c *Client) FindCommentByHeader(ctx context.Context, owner, repo string, number int, header string) (*int64, error) {
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: pageSize}}
	for {
		comments, resp, err := c.commentsList(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, errors.WithMessagef(err, "listing comments of %s/%s#%d", owner, repo, number)
		}
		for _, cmt := range comments {
			if cmt != nil && cmt.ID != nil && strings.HasPrefix(cmt.GetBody(), header) {
				return cmt.ID, nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) CreatePRComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, err := c.commentCreate(ctx, owner, repo, number, body)
	return errors.WithMessagef(err, "creating comment on %s/%s#%d", owner, repo, number)
}

func (c *Client) EditPRComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	_, err := c.commentEdit(ctx, owner, repo, commentID, body)
	return errors.WithMessagef(err, "editing comment %d on %s/%s", commentID, owner, repo)
}
