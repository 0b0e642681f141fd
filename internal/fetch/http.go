package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

const (
	// DefaultTimeout bounds a single HTTP fetch.
	DefaultTimeout = 30 * time.Second
	errorBodyLimit = 512
	userAgent      = "postview/1.0"
)

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Timeout time.Duration
	// Token is sent as a bearer token when set.
	Token  string
	Client *http.Client
}

// HTTPFetcher fetches documents over HTTP(S). Responses are never served
// from intermediary caches.
type HTTPFetcher struct {
	client *http.Client
	token  string
}

// NewHTTPFetcher creates an HTTPFetcher. A zero Timeout uses DefaultTimeout.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPFetcher{client: client, token: opts.Token}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, errors.ValidationError("invalid fetch location").
			WithCause(err).
			WithContext("location", location).
			Build()
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", userAgent)
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.NetworkError("fetch request failed").
			WithCause(err).
			WithContext("location", location).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		bodyStr := strings.ReplaceAll(string(limitedBody), "\n", " ")

		category := errors.CategoryNetwork
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			category = errors.CategoryAuth
		case http.StatusNotFound:
			category = errors.CategoryNotFound
		}

		return nil, errors.NewError(category, fmt.Sprintf("fetch returned %s", resp.Status)).
			WithContext("status", resp.Status).
			WithContext("code", resp.StatusCode).
			WithContext("location", location).
			WithContext("response", bodyStr).
			Build()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NetworkError("failed to read response body").
			WithCause(err).
			WithContext("location", location).
			Build()
	}
	return data, nil
}
