package metrics

import "time"

// FetchKind labels what a transport fetch was for.
type FetchKind string

const (
	FetchManifest FetchKind = "manifest"
	FetchListing  FetchKind = "listing"
	FetchPost     FetchKind = "post"
)

// ResolveOutcome labels the result of resolving a requested post.
type ResolveOutcome string

const (
	ResolveFound       ResolveOutcome = "found"
	ResolveNotFound    ResolveOutcome = "not_found"
	ResolveFetchFailed ResolveOutcome = "fetch_failed"
)

// Recorder defines observability hooks for index builds, fetches, resolution
// and the HTTP viewer. Implementations must be safe for concurrent use.
type Recorder interface {
	ObserveFetch(kind FetchKind, d time.Duration, success bool)
	ObserveIndexBuild(strategy string, d time.Duration, success bool)
	SetIndexSize(n int)
	SetFetchConcurrency(n int)
	IncResolve(outcome ResolveOutcome)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetch(FetchKind, time.Duration, bool) {}

func (NoopRecorder) ObserveIndexBuild(string, time.Duration, bool) {}

func (NoopRecorder) SetIndexSize(int) {}

func (NoopRecorder) SetFetchConcurrency(int) {}

func (NoopRecorder) IncResolve(ResolveOutcome) {}

func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}
