package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v81/github"
)

// ErrRepositoryNotFound is returned when the API reports 404 for a repository.
var ErrRepositoryNotFound = errors.New("repository not found")

// RepoSummary is what the wizard prints about a remote after create/link.
type RepoSummary struct {
	FullName      string
	HTMLURL       string
	CloneURL      string
	Visibility    string
	Private       bool
	DefaultBranch string
}

// DescribeRepository fetches owner/name from the REST API.
func (c *Client) DescribeRepository(ctx context.Context, owner, name string) (RepoSummary, error) {
	if c == nil || c.Client == nil {
		return RepoSummary{}, fmt.Errorf("github: client is nil")
	}

	repo, resp, err := c.Client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return RepoSummary{}, fmt.Errorf("%s/%s: %w", owner, name, ErrRepositoryNotFound)
		}
		return RepoSummary{}, fmt.Errorf("github: get %s/%s: %w", owner, name, err)
	}
	return summarize(repo), nil
}

func summarize(repo *github.Repository) RepoSummary {
	visibility := repo.GetVisibility()
	if visibility == "" {
		visibility = "public"
		if repo.GetPrivate() {
			visibility = "private"
		}
	}
	return RepoSummary{
		FullName:      repo.GetFullName(),
		HTMLURL:       repo.GetHTMLURL(),
		CloneURL:      repo.GetCloneURL(),
		Visibility:    visibility,
		Private:       repo.GetPrivate(),
		DefaultBranch: repo.GetDefaultBranch(),
	}
}
