package index

import (
	"context"
	"time"

	"git.home.luguber.info/inful/postview/internal/forge"
	"git.home.luguber.info/inful/postview/internal/metrics"
)

// observedClient reports directory listing calls as listing fetches.
type observedClient struct {
	client DirectoryClient
	rec    metrics.Recorder
}

func (o observedClient) ListDirectory(ctx context.Context, owner, repo, ref, dir string) ([]forge.ContentEntry, error) {
	start := time.Now()
	entries, err := o.client.ListDirectory(ctx, owner, repo, ref, dir)
	o.rec.ObserveFetch(metrics.FetchListing, time.Since(start), err == nil)
	return entries, err
}
