package index

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/post"
)

// ManifestEntry is one object of the JSON manifest array.
type ManifestEntry struct {
	File    string `json:"file"`
	Title   string `json:"title,omitempty"`
	Date    string `json:"date,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Slug    string `json:"slug,omitempty"`
}

// DecodeManifest parses a manifest document.
func DecodeManifest(data []byte) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid manifest JSON").Build()
	}
	return entries, nil
}

// EncodeManifest renders entries as an indented manifest document.
func EncodeManifest(entries []ManifestEntry) ([]byte, error) {
	if entries == nil {
		entries = []ManifestEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to encode manifest").Build()
	}
	return append(data, '\n'), nil
}

// ManifestEntryFor projects a summary back into manifest form under file.
// Title and slug are omitted only when a reader would derive the same values
// from file, so an entry relocated to a longer path keeps its identity.
func ManifestEntryFor(s post.Summary, file string) ManifestEntry {
	e := ManifestEntry{File: file, Date: s.Date, Excerpt: s.Excerpt}
	stem := post.Stem(file)
	if s.Title != stem {
		e.Title = s.Title
	}
	if s.Slug != stem {
		e.Slug = s.Slug
	}
	return e
}

// ManifestSource reads summaries from one JSON manifest. Post bodies are not
// fetched; relative file values resolve against the manifest location.
type ManifestSource struct {
	location string
	fetcher  fetch.Fetcher
}

// NewManifestSource creates a source for the manifest at location.
func NewManifestSource(location string, fetcher fetch.Fetcher) *ManifestSource {
	return &ManifestSource{location: location, fetcher: fetcher}
}

func (s *ManifestSource) Strategy() post.Strategy { return post.StrategyManifest }

// Location returns the manifest location.
func (s *ManifestSource) Location() string { return s.location }

func (s *ManifestSource) Entries(ctx context.Context) ([]Candidate, error) {
	data, err := s.fetcher.Fetch(ctx, s.location)
	if err != nil {
		return nil, sourceUnavailable(err, s.location)
	}

	entries, err := DecodeManifest(data)
	if err != nil {
		return nil, sourceUnavailable(err, s.location)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		file := strings.TrimSpace(e.File)
		if file == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Name:     file,
			Location: fetch.ResolveLocation(s.location, file),
			Options: post.SummaryOptions{
				Title:   e.Title,
				Date:    e.Date,
				Slug:    e.Slug,
				Excerpt: e.Excerpt,
			},
		})
	}
	return candidates, nil
}
