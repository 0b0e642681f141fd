package forge

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

// DefaultGitHubAPIURL is used when no API URL is configured.
const DefaultGitHubAPIURL = "https://api.github.com"

// ContentEntry is one item of a GitHub Contents API directory listing.
type ContentEntry struct {
	Type        string `json:"type"` // file, dir, symlink or submodule
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

// IsFile reports whether the entry is a regular file.
func (e ContentEntry) IsFile() bool { return e.Type == "file" }

// GitHubClient lists repository directories through the Contents API.
type GitHubClient struct {
	base *BaseForge
}

// NewGitHubClient creates a client for apiURL (DefaultGitHubAPIURL when empty).
// The token is optional; public repositories can be listed anonymously.
func NewGitHubClient(httpClient *http.Client, apiURL, token string) *GitHubClient {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	base := NewBaseForge(httpClient, apiURL, token)
	base.SetCustomHeader("Accept", "application/vnd.github+json")
	base.SetCustomHeader("X-GitHub-Api-Version", "2022-11-28")
	return &GitHubClient{base: base}
}

// ListDirectory returns the entries of dir in owner/repo at ref. An empty ref
// uses the repository's default branch.
func (c *GitHubClient) ListDirectory(ctx context.Context, owner, repo, ref, dir string) ([]ContentEntry, error) {
	if owner == "" || repo == "" {
		return nil, errors.ValidationError("owner and repo are required").
			WithContext("owner", owner).
			WithContext("repo", repo).
			Build()
	}

	endpoint := "repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo) + "/contents/" + escapeSegments(strings.Trim(dir, "/"))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	req, err := c.base.NewRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, err
	}

	var entries []ContentEntry
	if err := c.base.DoRequest(req, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// escapeSegments escapes each '/'-separated segment of p.
func escapeSegments(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
