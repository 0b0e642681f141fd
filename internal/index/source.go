// Package index builds the sorted post collection from a manifest or a
// directory listing.
package index

import (
	"context"

	"git.home.luguber.info/inful/postview/internal/post"
)

// Candidate is one discovered post before defaults are applied.
type Candidate struct {
	// Name is the post's source name (manifest file value or listed file name).
	Name string
	// Location is where the raw document can be fetched.
	Location string
	Options  post.SummaryOptions
	// Post is set when the body was already fetched and parsed.
	Post *post.ParsedPost
}

// Source yields the candidates of one discovery strategy.
type Source interface {
	Strategy() post.Strategy
	Entries(ctx context.Context) ([]Candidate, error)
}
