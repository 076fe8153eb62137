package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
)

const commentsPerPage = 100

// Comment is one issue comment, in the order GitHub returns them.
type Comment struct {
	// ID is the GitHub comment database ID.
	ID int64
	// Author is the GitHub login of the comment author.
	Author string
	// URL is the canonical URL of the comment.
	URL string
	// Body is the raw markdown body of the comment.
	Body string
	// CreatedAt is the comment creation time.
	CreatedAt time.Time
}

// Options tunes the HTTP side of the client.
type Options struct {
	// BaseURL overrides the API root (GitHub Enterprise, tests).
	BaseURL string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Transport is the underlying round tripper. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client performs the four tracker calls the pipeline needs against one issue.
type Client struct {
	logger *slog.Logger
	ref    IssueRef
	gh     *github.Client
}

// NewClient builds a client bound to ref.
func NewClient(logger *slog.Logger, ref IssueRef, opts Options) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{base: base, headers: ref.Headers()},
	}
	gh := github.NewClient(httpClient)

	if apiURL := strings.TrimSpace(opts.BaseURL); apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{logger: logger, ref: ref, gh: gh}, nil
}

// Ref returns the addressing context the client is bound to.
func (c *Client) Ref() IssueRef {
	return c.ref
}

// IssueBody fetches the markdown body of the issue. A missing body is empty.
func (c *Client) IssueBody(ctx context.Context) (string, error) {
	c.logger.Debug("fetching issue", "issue", c.ref.String(), "path", c.ref.APIPath())
	issue, _, err := c.gh.Issues.Get(ctx, c.ref.owner, c.ref.name, c.ref.number)
	if err != nil {
		return "", fmt.Errorf("fetch issue %s: %w", c.ref, err)
	}
	return issue.GetBody(), nil
}

// Comments fetches every comment of the issue, oldest first.
func (c *Client) Comments(ctx context.Context) ([]Comment, error) {
	opts := &github.IssueListCommentsOptions{
		Sort:        github.String("created"),
		Direction:   github.String("asc"),
		ListOptions: github.ListOptions{PerPage: commentsPerPage},
	}

	var out []Comment
	for {
		page, resp, err := c.gh.Issues.ListComments(ctx, c.ref.owner, c.ref.name, c.ref.number, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch comments of %s: %w", c.ref, err)
		}
		for _, node := range page {
			out = append(out, Comment{
				ID:        node.GetID(),
				Author:    node.GetUser().GetLogin(),
				URL:       node.GetHTMLURL(),
				Body:      node.GetBody(),
				CreatedAt: node.GetCreatedAt().Time,
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("fetched issue comments", "issue", c.ref.String(), "count", len(out))
	return out, nil
}

// PostComment adds a comment to the issue.
func (c *Client) PostComment(ctx context.Context, body string) error {
	c.logger.Debug("posting issue comment", "issue", c.ref.String(), "bytes", len(body))
	_, _, err := c.gh.Issues.CreateComment(ctx, c.ref.owner, c.ref.name, c.ref.number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("post comment on %s: %w", c.ref, err)
	}
	return nil
}

// Reopen sets the issue state to open. Reopening an open issue is a no-op on
// the GitHub side.
func (c *Client) Reopen(ctx context.Context) error {
	c.logger.Debug("reopening issue", "issue", c.ref.String())
	_, _, err := c.gh.Issues.Edit(ctx, c.ref.owner, c.ref.name, c.ref.number, &github.IssueRequest{
		State: github.String("open"),
	})
	if err != nil {
		return fmt.Errorf("reopen %s: %w", c.ref, err)
	}
	return nil
}

// headerTransport stamps the addressing context headers on every request.
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for key, values := range t.headers {
		req.Header[key] = append([]string(nil), values...)
	}
	return t.base.RoundTrip(req)
}
