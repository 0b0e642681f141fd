// Package metrics provides the observability hooks for postview.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	builder := index.NewBuilder(source) // NoopRecorder
//	builder = builder.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on the registry it is given and
// HTTPHandler exposes that registry for scraping on /metrics.
package metrics
