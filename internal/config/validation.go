package config

import (
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/post"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	v := &configurationValidator{config: c}
	return v.validate()
}

// configurationValidator coordinates validation across configuration domains.
type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSource(); err != nil {
		return err
	}
	if err := cv.validateFetch(); err != nil {
		return err
	}
	return cv.validateServer()
}

func (cv *configurationValidator) validateSource() error {
	src := cv.config.Source
	if !src.Strategy.Valid() {
		return errors.ValidationError("unknown source strategy").
			WithContext("strategy", string(src.Strategy)).
			Build()
	}
	if src.Strategy == post.StrategyManifest && src.Manifest == "" {
		return errors.ValidationError("source.manifest is required for the manifest strategy").Build()
	}
	if src.Strategy == post.StrategyDirectory && !src.Directory.IsLocal() {
		if src.Directory.Owner == "" || src.Directory.Repo == "" {
			return errors.ValidationError("source.directory needs either local or owner and repo").Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateFetch() error {
	if cv.config.Fetch.Concurrency > 64 {
		return errors.ValidationError("fetch.concurrency must be at most 64").
			WithContext("concurrency", cv.config.Fetch.Concurrency).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	if cv.config.Server.RefreshInterval < 0 {
		return errors.ValidationError("server.refresh_interval must not be negative").Build()
	}
	return nil
}
