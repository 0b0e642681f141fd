package httpserver

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postview/internal/catalog"
	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/post"
	"git.home.luguber.info/inful/postview/internal/resolve"
)

type builderFunc func(context.Context) (*post.Collection, error)

func (f builderFunc) Build(ctx context.Context) (*post.Collection, error) { return f(ctx) }

func newTestServer(t *testing.T, reg *prometheus.Registry) *Server {
	t.Helper()
	coll := post.NewCollection(post.StrategyDirectory, []post.Entry{{
		Summary: post.NewSummary("hello.md", "hello.md", post.SummaryOptions{Title: "Hello"}),
		Post:    post.NewParsedPost("hello.md", "Hello **world**."),
	}})
	cat := catalog.New(builderFunc(func(context.Context) (*post.Collection, error) { return coll, nil }), nil)
	require.NoError(t, cat.Reload(context.Background()))

	var rec metrics.Recorder
	if reg != nil {
		rec = metrics.NewPrometheusRecorder(reg)
	}
	return New(Options{
		Addr:     "127.0.0.1:0",
		Title:    "Blog",
		Catalog:  cat,
		Resolver: resolve.NewResolver(fetch.FileFetcher{}).WithRecorder(rec),
		Renderer: markdown.NewRenderer(markdown.Options{}),
		Recorder: rec,
		Registry: reg,
	})
}

func TestHandler_Routes(t *testing.T) {
	h := newTestServer(t, prometheus.NewRegistry()).Handler()

	tests := []struct {
		target string
		status int
	}{
		{"/", http.StatusOK},
		{"/post/hello", http.StatusOK},
		{"/post/", http.StatusOK},
		{"/post/nope", http.StatusNotFound},
		{"/api/posts", http.StatusOK},
		{"/api/posts/hello.md", http.StatusOK},
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/elsewhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}
}

func TestHandler_MetricsExposeRequests(t *testing.T) {
	h := newTestServer(t, prometheus.NewRegistry()).Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/post/hello", nil))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Contains(t, body, "postview_http_request_duration_seconds")
	assert.Contains(t, body, `route="GET /post/{id...}"`)
	assert.Contains(t, body, `postview_resolutions_total{outcome="found"} 1`)
}

func TestHandler_NoRegistryNoMetricsRoute(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.Start(context.Background()))
	require.Error(t, s.Start(context.Background()))

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	_, err = http.Get("http://" + s.Addr() + "/healthz")
	assert.Error(t, err)
}

func TestServer_StartFailsOnBadAddr(t *testing.T) {
	s := New(Options{Addr: "256.0.0.1:bad"})
	require.Error(t, s.Start(context.Background()))
}
