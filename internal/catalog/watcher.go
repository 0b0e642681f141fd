package catalog

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/post"
)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 300 * time.Millisecond

// WatchTarget is a local directory to watch and a filter on the base names
// of changed files.
type WatchTarget struct {
	Dir   string
	Match func(name string) bool
}

// WatchTargetFor returns the local path a reload should follow for cfg: the
// manifest file's directory or the local posts directory. It reports false
// when the source is remote.
func WatchTargetFor(cfg *config.Config) (WatchTarget, bool) {
	switch cfg.Source.Strategy {
	case post.StrategyManifest:
		if fetch.IsURL(cfg.Source.Manifest) {
			return WatchTarget{}, false
		}
		name := filepath.Base(cfg.Source.Manifest)
		return WatchTarget{
			Dir:   filepath.Dir(cfg.Source.Manifest),
			Match: func(n string) bool { return n == name },
		}, true
	case post.StrategyDirectory:
		if !cfg.Source.Directory.IsLocal() {
			return WatchTarget{}, false
		}
		return WatchTarget{Dir: cfg.Source.Directory.Local, Match: index.IsMarkdownName}, true
	default:
		return WatchTarget{}, false
	}
}

// Watcher reloads a catalog when files in a local directory change.
type Watcher struct {
	target   WatchTarget
	catalog  *Catalog
	watcher  *fsnotify.Watcher
	debounce time.Duration

	stopOnce   sync.Once
	stopChan   chan struct{}
	reloadChan chan struct{}
	done       sync.WaitGroup
}

// NewWatcher creates a watcher for target. A non-positive debounce uses
// DefaultDebounce.
func NewWatcher(c *Catalog, target WatchTarget, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if target.Match == nil {
		target.Match = func(string) bool { return true }
	}
	abs, err := filepath.Abs(target.Dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch path").
			WithContext("path", target.Dir).
			Build()
	}
	target.Dir = abs

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}

	return &Watcher{
		target:     target,
		catalog:    c,
		watcher:    fw,
		debounce:   debounce,
		stopChan:   make(chan struct{}),
		reloadChan: make(chan struct{}, 1),
	}, nil
}

// Start begins watching. Reloads run with ctx until ctx ends or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.target.Dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", w.target.Dir).
			Build()
	}
	slog.Info("Watching local post source", logfields.Location(w.target.Dir))

	w.done.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends watching and waits for the loops to exit.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
		w.done.Wait()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.done.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.target.Match(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("Post source change detected",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()))
			w.trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.done.Done()
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.stopChan:
			timer.Stop()
			return
		case <-w.reloadChan:
			timer.Reset(w.debounce)
		case <-timer.C:
			if err := w.catalog.Reload(ctx); err != nil {
				slog.Error("Reload after file change failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
	}
}
