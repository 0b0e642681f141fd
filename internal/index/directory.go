package index

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/forge"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/post"
)

// DefaultConcurrency bounds concurrent post fetches of a directory build.
const DefaultConcurrency = 8

// Listing is one Markdown file found by a Lister.
type Listing struct {
	Name     string
	Location string
}

// Lister enumerates the Markdown files of a posts directory.
type Lister interface {
	List(ctx context.Context) ([]Listing, error)
	// Describe names the listed directory for logs and errors.
	Describe() string
}

// IsMarkdownName reports whether name has a .md suffix, ignoring case.
func IsMarkdownName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".md")
}

// DirectoryClient is the part of the forge client a ForgeLister needs.
type DirectoryClient interface {
	ListDirectory(ctx context.Context, owner, repo, ref, dir string) ([]forge.ContentEntry, error)
}

// ForgeLister lists a repository directory through a forge API.
type ForgeLister struct {
	Client DirectoryClient
	Owner  string
	Repo   string
	Ref    string
	Dir    string
}

func (l *ForgeLister) Describe() string {
	d := l.Owner + "/" + l.Repo + "/" + strings.Trim(l.Dir, "/")
	if l.Ref != "" {
		d += "@" + l.Ref
	}
	return d
}

func (l *ForgeLister) List(ctx context.Context) ([]Listing, error) {
	entries, err := l.Client.ListDirectory(ctx, l.Owner, l.Repo, l.Ref, l.Dir)
	if err != nil {
		return nil, err
	}
	var out []Listing
	for _, e := range entries {
		if !e.IsFile() || !IsMarkdownName(e.Name) || e.DownloadURL == "" {
			continue
		}
		out = append(out, Listing{Name: e.Name, Location: e.DownloadURL})
	}
	return out, nil
}

// LocalLister lists a directory on the local filesystem (non-recursive).
type LocalLister struct {
	Dir string
}

func (l *LocalLister) Describe() string { return l.Dir }

func (l *LocalLister) List(ctx context.Context) ([]Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read posts directory").
			WithContext("path", l.Dir).
			Build()
	}
	var out []Listing
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsMarkdownName(e.Name()) {
			continue
		}
		out = append(out, Listing{Name: e.Name(), Location: filepath.Join(l.Dir, e.Name())})
	}
	return out, nil
}

// DirectorySource lists Markdown files and eagerly fetches and parses every
// one of them. Any single failure fails the whole source; there is no
// partial result.
type DirectorySource struct {
	lister      Lister
	fetcher     fetch.Fetcher
	concurrency int
}

// NewDirectorySource creates a directory source. Concurrency <= 0 uses
// DefaultConcurrency.
func NewDirectorySource(lister Lister, fetcher fetch.Fetcher, concurrency int) *DirectorySource {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &DirectorySource{lister: lister, fetcher: fetcher, concurrency: concurrency}
}

func (s *DirectorySource) Strategy() post.Strategy { return post.StrategyDirectory }

// Concurrency returns the fetch concurrency limit.
func (s *DirectorySource) Concurrency() int { return s.concurrency }

// Lister returns the underlying lister.
func (s *DirectorySource) Lister() Lister { return s.lister }

func (s *DirectorySource) Entries(ctx context.Context) ([]Candidate, error) {
	listings, err := s.lister.List(ctx)
	if err != nil {
		return nil, sourceUnavailable(err, s.lister.Describe())
	}
	slices.SortFunc(listings, func(a, b Listing) int { return strings.Compare(a.Name, b.Name) })

	candidates := make([]Candidate, len(listings))

	// Fetches are not canceled when a sibling fails: every issued fetch runs
	// to completion before the build reports the first failure.
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, l := range listings {
		g.Go(func() error {
			data, err := s.fetcher.Fetch(ctx, l.Location)
			if err != nil {
				return PostFetchFailed(err, l.Name, l.Location)
			}
			parsed := post.NewParsedPost(l.Name, string(data))
			candidates[i] = Candidate{
				Name:     l.Name,
				Location: l.Location,
				Options:  post.OptionsFromFrontMatter(parsed.Metadata),
				Post:     parsed,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}
