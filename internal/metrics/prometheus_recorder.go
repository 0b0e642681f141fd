package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "postview"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetchDuration    *prom.HistogramVec
	fetchResults     *prom.CounterVec
	buildDuration    *prom.HistogramVec
	buildOutcome     *prom.CounterVec
	indexSize        prom.Gauge
	fetchConcurrency prom.Gauge
	resolutions      *prom.CounterVec
	httpDuration     *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of manifest, listing and post fetches",
			Buckets:   prom.DefBuckets,
		}, []string{"kind", "result"}),
		fetchResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_results_total",
			Help:      "Fetch results by kind and success/failure",
		}, []string{"kind", "result"}),
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Duration of post index builds",
			Buckets:   prom.DefBuckets,
		}, []string{"strategy"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "index_build_outcomes_total",
			Help:      "Index build outcomes by strategy",
		}, []string{"strategy", "result"}),
		indexSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "index_posts",
			Help:      "Number of posts in the most recently built index",
		}),
		fetchConcurrency: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "fetch_concurrency",
			Help:      "Concurrency limit used by the last directory index build",
		}),
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Post resolutions by outcome",
		}, []string{"outcome"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Viewer HTTP request duration",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "code"}),
	}
	reg.MustRegister(pr.fetchDuration, pr.fetchResults, pr.buildDuration, pr.buildOutcome,
		pr.indexSize, pr.fetchConcurrency, pr.resolutions, pr.httpDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveFetch(kind FetchKind, d time.Duration, success bool) {
	if p == nil {
		return
	}
	res := resultLabel(success)
	p.fetchDuration.WithLabelValues(string(kind), res).Observe(d.Seconds())
	p.fetchResults.WithLabelValues(string(kind), res).Inc()
}

func (p *PrometheusRecorder) ObserveIndexBuild(strategy string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(strategy).Observe(d.Seconds())
	p.buildOutcome.WithLabelValues(strategy, resultLabel(success)).Inc()
}

func (p *PrometheusRecorder) SetIndexSize(n int) {
	if p == nil {
		return
	}
	p.indexSize.Set(float64(n))
}

func (p *PrometheusRecorder) SetFetchConcurrency(n int) {
	if p == nil {
		return
	}
	p.fetchConcurrency.Set(float64(n))
}

func (p *PrometheusRecorder) IncResolve(outcome ResolveOutcome) {
	if p == nil {
		return
	}
	p.resolutions.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}
