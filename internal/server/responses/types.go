// Package responses defines API response types used by the viewer's HTTP handlers.
package responses

import (
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/postview/internal/post"
)

// PostSummary is one entry of the post list.
type PostSummary struct {
	Title      string `json:"title"`
	Date       string `json:"date,omitempty"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt,omitempty"`
	SourceName string `json:"source_name"`
	URL        string `json:"url"`
}

// PostListResponse is the body of GET /api/posts.
type PostListResponse struct {
	Strategy string        `json:"strategy"`
	Count    int           `json:"count"`
	Posts    []PostSummary `json:"posts"`
}

// PostResponse is the body of GET /api/posts/{id}.
type PostResponse struct {
	PostSummary
	DisplayTitle string            `json:"display_title"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	HTML         string            `json:"html"`
	Fingerprint  string            `json:"fingerprint,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status     string     `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
	Version    string     `json:"version"`
	Uptime     float64    `json:"uptime"`
	Posts      int        `json:"posts"`
	Reloads    int        `json:"reloads"`
	LastReload *time.Time `json:"last_reload,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// NewPostSummary converts an index summary, linking it under postPath.
func NewPostSummary(s post.Summary, postPath string) PostSummary {
	return PostSummary{
		Title:      s.Title,
		Date:       s.Date,
		Slug:       s.Slug,
		Excerpt:    s.Excerpt,
		SourceName: s.SourceName,
		URL:        PostURL(postPath, s.Slug),
	}
}

// PostURL links id under postPath. Each path segment is escaped so that
// characters such as '#', '?' and '%' stay part of the id.
func PostURL(postPath, id string) string {
	segments := strings.Split(id, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return postPath + strings.Join(segments, "/")
}
