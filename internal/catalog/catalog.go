// Package catalog holds the post collection a long-running viewer serves and
// replaces it when the source changes.
package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/post"
)

// Builder produces a fresh collection. *index.Builder satisfies it.
type Builder interface {
	Build(ctx context.Context) (*post.Collection, error)
}

// Status describes the catalog's last reload.
type Status struct {
	Loaded     bool
	Posts      int
	Reloads    int
	LastReload time.Time
	LastError  string
}

// Catalog serves the most recent successfully built collection.
//
// Readers never block: the collection is published through an atomic
// pointer and replaced wholesale. Reloads are serialized.
type Catalog struct {
	builder Builder
	logger  *slog.Logger

	current atomic.Pointer[post.Collection]

	reloadMu sync.Mutex
	statusMu sync.RWMutex
	status   Status
}

// New creates an empty catalog. Call Reload to populate it.
func New(builder Builder, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{builder: builder, logger: logger}
}

// Current returns the served collection, or nil if no build has succeeded yet.
func (c *Catalog) Current() *post.Collection {
	return c.current.Load()
}

// Reload rebuilds the collection. On failure the previous collection stays
// in place and the error is returned and remembered in Status.
func (c *Catalog) Reload(ctx context.Context) error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	coll, err := c.builder.Build(ctx)
	now := time.Now()

	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.Reloads++
	c.status.LastReload = now
	if err != nil {
		c.status.LastError = err.Error()
		if c.current.Load() != nil {
			c.logger.Warn("Keeping previous post index after failed reload", logfields.Error(err))
		}
		return err
	}

	c.current.Store(coll)
	c.status.Loaded = true
	c.status.Posts = coll.Len()
	c.status.LastError = ""
	return nil
}

// Status returns a snapshot of the reload state.
func (c *Catalog) Status() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}
