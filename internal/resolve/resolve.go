// Package resolve selects the post to display for a request and makes sure
// its body is available.
package resolve

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/post"
)

// Post is a resolved post ready for rendering.
type Post struct {
	Summary  post.Summary
	Body     string
	Metadata post.FrontMatter
	// Title is the display title: the post's own front matter title, else
	// an explicit summary title, else the body's first level-1 heading,
	// else the summary's file-name default.
	Title string
}

// Resolver looks posts up in a collection. It never mutates the collection.
type Resolver struct {
	fetcher  fetch.Fetcher
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewResolver creates a Resolver that fetches uncached bodies with fetcher.
func NewResolver(fetcher fetch.Fetcher) *Resolver {
	return &Resolver{
		fetcher:  fetcher,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder sets the metrics recorder.
func (r *Resolver) WithRecorder(rec metrics.Recorder) *Resolver {
	r.recorder = metrics.OrNoop(rec)
	return r
}

// WithLogger sets the logger.
func (r *Resolver) WithLogger(l *slog.Logger) *Resolver {
	if l != nil {
		r.logger = l
	}
	return r
}

// Resolve returns the post identified by id, or the first post when id is
// empty. A missing post is (nil, false, nil). A failed body fetch returns an
// error matching index.ErrPostFetchFailed.
func (r *Resolver) Resolve(ctx context.Context, coll *post.Collection, id string) (*Post, bool, error) {
	entry, ok := coll.Find(id)
	if !ok {
		r.recorder.IncResolve(metrics.ResolveNotFound)
		r.logger.Debug("Post not found", logfields.Post(id))
		return nil, false, nil
	}

	parsed := entry.Post
	if parsed == nil {
		data, err := fetch.Observed(r.fetcher, r.recorder, metrics.FetchPost).Fetch(ctx, entry.Summary.Location)
		if err != nil {
			r.recorder.IncResolve(metrics.ResolveFetchFailed)
			r.logger.Warn("Post fetch failed",
				logfields.Post(entry.Summary.SourceName),
				logfields.Location(entry.Summary.Location),
				logfields.Error(err))
			return nil, false, index.PostFetchFailed(err, entry.Summary.SourceName, entry.Summary.Location)
		}
		parsed = post.NewParsedPost(entry.Summary.SourceName, string(data))
	}

	r.recorder.IncResolve(metrics.ResolveFound)
	return &Post{
		Summary:  entry.Summary,
		Body:     parsed.Body,
		Metadata: parsed.Metadata,
		Title:    displayTitle(entry.Summary, parsed),
	}, true, nil
}

func displayTitle(s post.Summary, p *post.ParsedPost) string {
	if t := p.Metadata.Title(); t != "" {
		return t
	}
	if s.HasExplicitTitle() {
		return s.Title
	}
	if h := markdown.FirstHeading(p.Body); h != "" {
		return h
	}
	return s.Title
}
