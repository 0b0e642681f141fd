// Package fetch retrieves raw documents (manifests, listings, posts) from
// HTTP(S) URLs or the local filesystem.
package fetch

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/metrics"
)

// Fetcher returns the bytes stored at location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// Router dispatches by URL scheme: http and https go to HTTP, file URLs and
// plain paths go to File.
type Router struct {
	HTTP Fetcher
	File Fetcher
}

// NewRouter builds a Router over the given HTTP fetcher and a FileFetcher.
func NewRouter(httpFetcher Fetcher) *Router {
	return &Router{HTTP: httpFetcher, File: FileFetcher{}}
}

func (r *Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	switch scheme(location) {
	case "http", "https":
		if r.HTTP == nil {
			return nil, errors.ConfigError("no HTTP fetcher configured").
				WithContext("location", location).
				Build()
		}
		return r.HTTP.Fetch(ctx, location)
	case "", "file":
		if r.File == nil {
			return nil, errors.ConfigError("no file fetcher configured").
				WithContext("location", location).
				Build()
		}
		return r.File.Fetch(ctx, location)
	default:
		return nil, errors.ValidationError("unsupported location scheme").
			WithContext("location", location).
			Build()
	}
}

// IsURL reports whether location is an http, https or file URL.
func IsURL(location string) bool {
	switch scheme(location) {
	case "http", "https", "file":
		return true
	}
	return false
}

func scheme(location string) string {
	// Windows drive letters parse as one-letter schemes.
	if filepath.VolumeName(location) != "" {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// ResolveLocation resolves ref against the location of the document that
// referenced it. Absolute URLs and absolute paths are returned unchanged.
func ResolveLocation(base, ref string) string {
	if IsURL(ref) || filepath.IsAbs(ref) {
		return ref
	}
	if IsURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return ref
		}
		r, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return b.ResolveReference(r).String()
	}
	return filepath.Join(filepath.Dir(base), filepath.FromSlash(ref))
}

// Observed wraps f so every fetch reports its duration and result to rec
// under kind.
func Observed(f Fetcher, rec metrics.Recorder, kind metrics.FetchKind) Fetcher {
	rec = metrics.OrNoop(rec)
	return FetcherFunc(func(ctx context.Context, location string) ([]byte, error) {
		start := time.Now()
		data, err := f.Fetch(ctx, location)
		rec.ObserveFetch(kind, time.Since(start), err == nil)
		return data, err
	})
}
