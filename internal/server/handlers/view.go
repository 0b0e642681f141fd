package handlers

import (
	"context"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/postview/internal/catalog"
	"git.home.luguber.info/inful/postview/internal/frontmatter"
	"git.home.luguber.info/inful/postview/internal/post"
	"git.home.luguber.info/inful/postview/internal/resolve"
	"git.home.luguber.info/inful/postview/internal/server/responses"
)

// PostPath is the URL prefix of single post pages.
const PostPath = "/post/"

// Catalog is the view of the served collection the handlers need.
type Catalog interface {
	Current() *post.Collection
	Status() catalog.Status
}

// PostResolver resolves an id against a collection.
type PostResolver interface {
	Resolve(ctx context.Context, coll *post.Collection, id string) (*resolve.Post, bool, error)
}

// Renderer converts a post body to HTML. Relative links resolve against base.
type Renderer interface {
	RenderWithBase(body, base string) (string, error)
}

// renderedPost is a resolved post with its HTML and content fingerprint.
type renderedPost struct {
	*resolve.Post
	HTML        string
	Fingerprint string
}

func render(r Renderer, p *resolve.Post) (*renderedPost, error) {
	html, err := r.RenderWithBase(p.Body, p.Summary.Location)
	if err != nil {
		return nil, err
	}
	return &renderedPost{Post: p, HTML: html, Fingerprint: fingerprint(p)}, nil
}

// fingerprint hashes what the post page shows: front matter, display title,
// index date and excerpt, and body. Front matter that cannot be serialized is
// left out.
func fingerprint(p *resolve.Post) string {
	fm := ""
	if len(p.Metadata) > 0 {
		if b, err := frontmatter.SerializeFlat(p.Metadata, frontmatter.Style{Newline: "\n"}); err == nil {
			fm = strings.TrimSuffix(string(b), "\n")
		}
	}
	// Heading, date and excerpt may come from the manifest, not the file.
	page := strings.Join([]string{"title: " + p.Title, "date: " + p.Summary.Date, "excerpt: " + p.Summary.Excerpt}, "\n")
	if fm != "" {
		page = fm + "\n" + page
	}
	return mdfp.CalculateFingerprintFromParts(page, p.Body)
}

func postURL(id string) string {
	return responses.PostURL(PostPath, id)
}

// etagMatches reports whether an If-None-Match header names etag.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
