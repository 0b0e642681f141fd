// Package post holds the blog data model shared by the index builder, the
// resolver and the presentation layers.
package post

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/postview/internal/frontmatter"
)

// Strategy names how a collection's candidate posts were discovered.
type Strategy string

const (
	StrategyManifest  Strategy = "manifest"
	StrategyDirectory Strategy = "directory"
)

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	return s == StrategyManifest || s == StrategyDirectory
}

// Recognized front matter keys.
const (
	KeyTitle   = "title"
	KeyDate    = "date"
	KeySlug    = "slug"
	KeyExcerpt = "excerpt"
)

// FrontMatter is the flat metadata of a post. Unknown keys are kept.
type FrontMatter map[string]string

func (f FrontMatter) Title() string   { return f[KeyTitle] }
func (f FrontMatter) Date() string    { return f[KeyDate] }
func (f FrontMatter) Slug() string    { return f[KeySlug] }
func (f FrontMatter) Excerpt() string { return f[KeyExcerpt] }

// ParsedPost is a raw document split into metadata and body.
type ParsedPost struct {
	Body       string
	Metadata   FrontMatter
	SourceName string
}

// NewParsedPost parses raw with the flat front matter reader.
// Metadata is never nil.
func NewParsedPost(sourceName, raw string) *ParsedPost {
	parsed := frontmatter.Parse(raw)
	return &ParsedPost{
		Body:       parsed.Body,
		Metadata:   FrontMatter(parsed.Metadata),
		SourceName: sourceName,
	}
}

// SummaryOptions are the optional summary fields as supplied by a manifest
// entry or a post's own front matter. Empty means absent.
type SummaryOptions struct {
	Title   string
	Date    string
	Slug    string
	Excerpt string
}

// OptionsFromFrontMatter picks the recognized keys out of fm.
func OptionsFromFrontMatter(fm FrontMatter) SummaryOptions {
	return SummaryOptions{
		Title:   fm.Title(),
		Date:    fm.Date(),
		Slug:    fm.Slug(),
		Excerpt: fm.Excerpt(),
	}
}

// WithDefaults fills absent title and slug from the source name.
func (o SummaryOptions) WithDefaults(sourceName string) SummaryOptions {
	out := SummaryOptions{
		Title:   strings.TrimSpace(o.Title),
		Date:    strings.TrimSpace(o.Date),
		Slug:    strings.TrimSpace(o.Slug),
		Excerpt: strings.TrimSpace(o.Excerpt),
	}
	stem := Stem(sourceName)
	if out.Title == "" {
		out.Title = stem
	}
	if out.Slug == "" {
		out.Slug = stem
	}
	return out
}

// Summary is the listing projection of a post.
type Summary struct {
	Title      string `json:"title"`
	Date       string `json:"date,omitempty"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt,omitempty"`
	SourceName string `json:"source_name"`
	Location   string `json:"-"`

	explicitTitle bool
}

// NewSummary resolves defaults once and builds the summary for sourceName.
func NewSummary(sourceName, location string, opts SummaryOptions) Summary {
	resolved := opts.WithDefaults(sourceName)
	return Summary{
		Title:         resolved.Title,
		Date:          resolved.Date,
		Slug:          resolved.Slug,
		Excerpt:       resolved.Excerpt,
		SourceName:    sourceName,
		Location:      location,
		explicitTitle: strings.TrimSpace(opts.Title) != "",
	}
}

// HasExplicitTitle reports whether Title came from the source rather than the
// file name default.
func (s Summary) HasExplicitTitle() bool {
	return s.explicitTitle
}

// Stem returns name without its final extension. Directories are kept.
func Stem(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
