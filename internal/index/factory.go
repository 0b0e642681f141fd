package index

import (
	"net/http"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/forge"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/post"
)

// NewSource builds the Source selected by cfg. Fetches made by the source are
// reported to rec; fetcher is normally a fetch.Router.
func NewSource(cfg *config.Config, fetcher fetch.Fetcher, rec metrics.Recorder) (Source, error) {
	switch cfg.Source.Strategy {
	case post.StrategyManifest:
		return NewManifestSource(cfg.Source.Manifest, fetch.Observed(fetcher, rec, metrics.FetchManifest)), nil

	case post.StrategyDirectory:
		dir := cfg.Source.Directory
		var lister Lister
		if dir.IsLocal() {
			lister = &LocalLister{Dir: dir.Local}
		} else {
			client := forge.NewGitHubClient(&http.Client{Timeout: cfg.Fetch.Timeout}, dir.APIURL, dir.Token)
			lister = &ForgeLister{
				Client: observedClient{client: client, rec: metrics.OrNoop(rec)},
				Owner:  dir.Owner,
				Repo:   dir.Repo,
				Ref:    dir.Branch,
				Dir:    dir.Path,
			}
		}
		return NewDirectorySource(lister, fetch.Observed(fetcher, rec, metrics.FetchPost), cfg.Fetch.Concurrency), nil

	default:
		return nil, errors.ValidationError("unknown source strategy").
			WithContext("strategy", string(cfg.Source.Strategy)).
			Build()
	}
}

// NewFetcher builds the transport for cfg: HTTP(S) with the configured
// timeout, local files otherwise. The directory token is only sent to the
// forge API, never to post download URLs.
func NewFetcher(cfg *config.Config) *fetch.Router {
	return fetch.NewRouter(fetch.NewHTTPFetcher(fetch.HTTPOptions{Timeout: cfg.Fetch.Timeout}))
}
