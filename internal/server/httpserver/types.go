package httpserver

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/server/handlers"
)

// Options wires the server's dependencies.
type Options struct {
	Addr     string
	Title    string
	Catalog  handlers.Catalog
	Resolver handlers.PostResolver
	Renderer handlers.Renderer

	// Recorder receives HTTP request metrics. Nil disables them.
	Recorder metrics.Recorder
	// Registry is exposed on /metrics when set.
	Registry *prometheus.Registry

	Logger *slog.Logger
}
