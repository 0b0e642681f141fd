package index

import (
	"context"
	"os"
	"sync"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

// mapFetcher serves documents from memory and counts fetches.
type mapFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	fail  map[string]bool
	calls map[string]int
}

func newMapFetcher(docs map[string]string) *mapFetcher {
	return &mapFetcher{docs: docs, fail: map[string]bool{}, calls: map[string]int{}}
}

func (m *mapFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[location]++
	if m.fail[location] {
		return nil, errors.NetworkError("fetch returned 500 Internal Server Error").
			WithContext("location", location).
			Build()
	}
	doc, ok := m.docs[location]
	if !ok {
		return nil, errors.NotFoundError("fetch returned 404 Not Found").
			WithContext("location", location).
			Build()
	}
	return []byte(doc), nil
}

func (m *mapFetcher) count(location string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[location]
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}
