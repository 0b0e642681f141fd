package fetch

import (
	"context"
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

// FileFetcher reads local files given as plain paths or file:// URLs.
type FileFetcher struct{}

func (FileFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := location
	if scheme(location) == "file" {
		u, err := url.Parse(location)
		if err != nil {
			return nil, errors.ValidationError("invalid file URL").
				WithCause(err).
				WithContext("location", location).
				Build()
		}
		path = filepath.FromSlash(u.Path)
	}

	// #nosec G304 -- locations come from configuration or a trusted manifest.
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("file not found").
				WithCause(err).
				WithContext("location", location).
				Build()
		}
		return nil, errors.FileSystemError("failed to read file").
			WithCause(err).
			WithContext("location", location).
			Build()
	}
	return data, nil
}
