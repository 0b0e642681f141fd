package index

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/post"
)

// Builder turns a Source into a sorted, immutable collection.
type Builder struct {
	source   Source
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewBuilder creates a Builder with no metrics and the default logger.
func NewBuilder(source Source) *Builder {
	return &Builder{
		source:   source,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(r metrics.Recorder) *Builder {
	b.recorder = metrics.OrNoop(r)
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	if l != nil {
		b.logger = l
	}
	return b
}

// Strategy returns the source's strategy.
func (b *Builder) Strategy() post.Strategy { return b.source.Strategy() }

// Build obtains every candidate, resolves summary defaults and sorts the
// result. A failed build returns no collection.
func (b *Builder) Build(ctx context.Context) (*post.Collection, error) {
	strategy := b.source.Strategy()
	start := time.Now()

	if ds, ok := b.source.(*DirectorySource); ok {
		b.recorder.SetFetchConcurrency(ds.Concurrency())
	}

	candidates, err := b.source.Entries(ctx)
	elapsed := time.Since(start)
	b.recorder.ObserveIndexBuild(string(strategy), elapsed, err == nil)
	if err != nil {
		b.logger.Error("Index build failed",
			logfields.Strategy(string(strategy)),
			logfields.DurationMS(float64(elapsed.Milliseconds())),
			logfields.Error(err))
		return nil, err
	}

	entries := make([]post.Entry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, post.Entry{
			Summary: post.NewSummary(c.Name, c.Location, c.Options),
			Post:    c.Post,
		})
	}
	coll := post.NewCollection(strategy, entries)
	b.recorder.SetIndexSize(coll.Len())

	b.logger.Info("Index built",
		logfields.Strategy(string(strategy)),
		logfields.Count(coll.Len()),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return coll, nil
}
