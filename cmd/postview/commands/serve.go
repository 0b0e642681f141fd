package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/postview/internal/catalog"
	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/logfields"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/resolve"
	"git.home.luguber.info/inful/postview/internal/server/httpserver"
)

const shutdownTimeout = 15 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg)
}

// Viewer is a running HTTP viewer with its reload triggers.
type Viewer struct {
	Catalog   *catalog.Catalog
	Server    *httpserver.Server
	refresher *catalog.Refresher
	watcher   *catalog.Watcher
}

// StartViewer builds the index, starts the reload triggers and the HTTP
// server. A failed initial build is logged and the server still starts;
// pages report the index as unavailable until a reload succeeds.
func StartViewer(ctx context.Context, cfg *config.Config) (*Viewer, error) {
	var (
		rec metrics.Recorder = metrics.NoopRecorder{}
		reg *prometheus.Registry
	)
	if cfg.Server.Metrics {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		rec = metrics.NewPrometheusRecorder(reg)
	}

	fetcher := index.NewFetcher(cfg)
	source, err := index.NewSource(cfg, fetcher, rec)
	if err != nil {
		return nil, err
	}
	cat := catalog.New(index.NewBuilder(source).WithRecorder(rec), nil)
	if err := cat.Reload(ctx); err != nil {
		slog.Warn("Initial index build failed; serving without posts until a reload succeeds", logfields.Error(err))
	}

	v := &Viewer{Catalog: cat}

	if cfg.Server.RefreshInterval > 0 {
		v.refresher, err = catalog.NewRefresher(cat, cfg.Server.RefreshInterval)
		if err != nil {
			return nil, err
		}
		if err := startTrigger(ctx, v.refresher); err != nil {
			v.refresher = nil
			return nil, err
		}
	}

	if cfg.Server.Watch {
		if target, ok := catalog.WatchTargetFor(cfg); ok {
			w, err := catalog.NewWatcher(cat, target, catalog.DefaultDebounce)
			if err != nil {
				v.stopTriggers()
				return nil, err
			}
			if err := startTrigger(ctx, w); err != nil {
				slog.Warn("File watching disabled", logfields.Location(target.Dir), logfields.Error(err))
			} else {
				v.watcher = w
			}
		}
	}

	v.Server = httpserver.New(httpserver.Options{
		Addr:     cfg.Server.Addr,
		Title:    cfg.Server.Title,
		Catalog:  cat,
		Resolver: resolve.NewResolver(fetcher).WithRecorder(rec),
		Renderer: markdown.NewRenderer(markdown.Options{
			UnsafeHTML: cfg.Markdown.UnsafeHTML,
			HardWraps:  cfg.Markdown.HardWraps,
		}),
		Recorder: rec,
		Registry: reg,
	})
	if err := v.Server.Start(ctx); err != nil {
		v.stopTriggers()
		return nil, err
	}
	return v, nil
}

// Stop shuts the server and the reload triggers down.
func (v *Viewer) Stop(ctx context.Context) error {
	err := v.Server.Stop(ctx)
	v.stopTriggers()
	return err
}

type trigger interface {
	Start(ctx context.Context) error
	Stop() error
}

// startTrigger starts t. When Start fails t is stopped again, releasing what
// its constructor acquired.
func startTrigger(ctx context.Context, t trigger) error {
	err := t.Start(ctx)
	if err == nil {
		return nil
	}
	if stopErr := t.Stop(); stopErr != nil {
		slog.Warn("Failed to stop trigger after start failure", logfields.Error(stopErr))
	}
	return err
}

func (v *Viewer) stopTriggers() {
	if v.watcher != nil {
		if err := v.watcher.Stop(); err != nil {
			slog.Warn("Failed to stop file watcher", logfields.Error(err))
		}
	}
	if v.refresher != nil {
		if err := v.refresher.Stop(); err != nil {
			slog.Warn("Failed to stop index refresher", logfields.Error(err))
		}
	}
}

// RunServe runs the viewer until ctx is canceled.
func RunServe(ctx context.Context, cfg *config.Config) error {
	v, err := StartViewer(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("Viewer running, waiting for shutdown signal", slog.String("addr", v.Server.Addr()))
	<-ctx.Done()

	slog.Info("Shutdown signal received, stopping viewer")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	return v.Stop(stopCtx)
}
