package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/post"
)

// scriptedBuilder returns its queued results in order, then repeats the last.
type scriptedBuilder struct {
	mu      sync.Mutex
	results []buildResult
	calls   int
}

type buildResult struct {
	coll *post.Collection
	err  error
}

func (b *scriptedBuilder) Build(context.Context) (*post.Collection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := min(b.calls, len(b.results)-1)
	b.calls++
	return b.results[i].coll, b.results[i].err
}

func (b *scriptedBuilder) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func collectionOf(names ...string) *post.Collection {
	entries := make([]post.Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, post.Entry{Summary: post.NewSummary(n, n, post.SummaryOptions{})})
	}
	return post.NewCollection(post.StrategyManifest, entries)
}

func TestCatalog_EmptyUntilFirstReload(t *testing.T) {
	c := New(&scriptedBuilder{results: []buildResult{{coll: collectionOf("a.md")}}}, nil)
	assert.Nil(t, c.Current())
	assert.False(t, c.Status().Loaded)

	require.NoError(t, c.Reload(context.Background()))
	require.NotNil(t, c.Current())
	assert.Equal(t, 1, c.Current().Len())

	st := c.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 1, st.Posts)
	assert.Equal(t, 1, st.Reloads)
	assert.Empty(t, st.LastError)
	assert.False(t, st.LastReload.IsZero())
}

func TestCatalog_FailedReloadKeepsPreviousCollection(t *testing.T) {
	first := collectionOf("a.md", "b.md")
	b := &scriptedBuilder{results: []buildResult{
		{coll: first},
		{err: errors.New("manifest unreachable")},
		{coll: collectionOf("c.md")},
	}}
	c := New(b, nil)

	require.NoError(t, c.Reload(context.Background()))
	require.Error(t, c.Reload(context.Background()))
	assert.Same(t, first, c.Current())
	assert.Equal(t, "manifest unreachable", c.Status().LastError)
	assert.True(t, c.Status().Loaded)

	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, 1, c.Current().Len())
	assert.Empty(t, c.Status().LastError)
	assert.Equal(t, 3, c.Status().Reloads)
}

func TestCatalog_InitialFailureLeavesNoCollection(t *testing.T) {
	c := New(&scriptedBuilder{results: []buildResult{{err: errors.New("down")}}}, nil)
	require.Error(t, c.Reload(context.Background()))
	assert.Nil(t, c.Current())
	assert.False(t, c.Status().Loaded)
}

func TestRefresher_ReloadsPeriodically(t *testing.T) {
	b := &scriptedBuilder{results: []buildResult{{coll: collectionOf("a.md")}}}
	c := New(b, nil)

	r, err := NewRefresher(c, 50*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Start(ctx))
	assert.NotEmpty(t, r.JobID())

	require.Eventually(t, func() bool { return b.callCount() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, r.Stop())
	assert.NotNil(t, c.Current())
}

func TestNewRefresher_RejectsNonPositiveInterval(t *testing.T) {
	_, err := NewRefresher(New(&scriptedBuilder{}, nil), 0)
	require.Error(t, err)
}

func TestWatcher_ReloadsOnMatchingChange(t *testing.T) {
	dir := t.TempDir()
	b := &scriptedBuilder{results: []buildResult{{coll: collectionOf("a.md")}}}
	c := New(b, nil)

	w, err := NewWatcher(c, WatchTarget{Dir: dir, Match: func(n string) bool { return n == "posts.json" }}, 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, b.callCount())

	for range 3 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.json"), []byte("[]"), 0o600))
	}
	require.Eventually(t, func() bool { return b.callCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.NotNil(t, c.Current())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(New(&scriptedBuilder{}, nil), WatchTarget{Dir: t.TempDir()}, 0)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatchTargetFor(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Manifest = "content/posts.json"
	target, ok := WatchTargetFor(cfg)
	require.True(t, ok)
	assert.Equal(t, "content", target.Dir)
	assert.True(t, target.Match("posts.json"))
	assert.False(t, target.Match("a.md"))

	cfg.Source.Manifest = "https://example.com/posts.json"
	_, ok = WatchTargetFor(cfg)
	assert.False(t, ok)

	cfg.Source.Strategy = post.StrategyDirectory
	cfg.Source.Directory.Local = "posts"
	target, ok = WatchTargetFor(cfg)
	require.True(t, ok)
	assert.Equal(t, "posts", target.Dir)
	assert.True(t, target.Match("hello.md"))
	assert.False(t, target.Match("hello.txt"))

	cfg.Source.Directory.Local = ""
	cfg.Source.Directory.Owner = "o"
	cfg.Source.Directory.Repo = "r"
	_, ok = WatchTargetFor(cfg)
	assert.False(t, ok)
}
