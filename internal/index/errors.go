package index

import (
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

var (
	// ErrSourceUnavailable signals that the manifest or directory listing
	// could not be obtained or decoded. No index is produced.
	ErrSourceUnavailable = errors.SourceError("post source unavailable").Build()

	// ErrPostFetchFailed signals that an individual post body could not be
	// fetched. During a directory build it fails the whole build.
	ErrPostFetchFailed = errors.PostFetchError("post fetch failed").Build()
)

// sourceUnavailable wraps cause so that errors.Is(err, ErrSourceUnavailable) holds.
func sourceUnavailable(cause error, location string) error {
	return errors.WrapError(cause, errors.CategorySource, ErrSourceUnavailable.Message()).
		WithContext("location", location).
		Build()
}

// PostFetchFailed wraps cause so that errors.Is(err, ErrPostFetchFailed) holds.
func PostFetchFailed(cause error, sourceName, location string) error {
	return errors.WrapError(cause, errors.CategoryPostFetch, ErrPostFetchFailed.Message()).
		WithContext("post", sourceName).
		WithContext("location", location).
		Build()
}
