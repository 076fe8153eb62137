// Package githubapi is the tracker side of the decision pipeline: it resolves
// the addressing context for one issue and talks to the GitHub REST API.
package githubapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the GitHub REST API root.
	DefaultAPIURL = "https://api.github.com/"
	// DefaultNamespace is the owner/name used in human-facing issue URLs.
	DefaultNamespace = "inab/research-software-etl"
	// DefaultTimeout bounds every tracker round trip.
	DefaultTimeout = 30 * time.Second

	acceptHeader = "application/vnd.github+json"
)

// IssueRef is the immutable addressing context of the issue under review.
type IssueRef struct {
	owner     string
	name      string
	number    int
	token     string
	namespace string
}

// NewIssueRef validates the repository slug, issue number and credential.
// namespace selects the owner/name of IssueURL; empty means DefaultNamespace.
func NewIssueRef(repo, number, token, namespace string) (IssueRef, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return IssueRef{}, fmt.Errorf("repository is empty")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return IssueRef{}, fmt.Errorf("invalid repository slug %q, expected owner/repo", repo)
	}

	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil || n <= 0 {
		return IssueRef{}, fmt.Errorf("invalid issue number %q, expected a positive integer", number)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return IssueRef{}, fmt.Errorf("GitHub token is empty")
	}

	namespace = strings.Trim(strings.TrimSpace(namespace), "/")
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return IssueRef{
		owner:     parts[0],
		name:      parts[1],
		number:    n,
		token:     token,
		namespace: namespace,
	}, nil
}

// Repo returns the owner/name slug used for API calls.
func (r IssueRef) Repo() string {
	return r.owner + "/" + r.name
}

// Number returns the issue number.
func (r IssueRef) Number() int {
	return r.number
}

// APIPath is the issue resource path relative to the API root.
func (r IssueRef) APIPath() string {
	return fmt.Sprintf("repos/%s/issues/%d", r.Repo(), r.number)
}

// Headers returns the authorization and content negotiation headers sent
// with every request.
func (r IssueRef) Headers() http.Header {
	h := make(http.Header, 2)
	h.Set("Authorization", "Bearer "+r.token)
	h.Set("Accept", acceptHeader)
	return h
}

// IssueURL is the human-facing issue link stored in records. It is built from
// the configured namespace, not from the repository the API calls target.
func (r IssueRef) IssueURL() string {
	return fmt.Sprintf("https://github.com/%s/issues/%d", r.namespace, r.number)
}

// String implements fmt.Stringer without exposing the token.
func (r IssueRef) String() string {
	return fmt.Sprintf("%s#%d", r.Repo(), r.number)
}
