package config

import (
	"time"

	"git.home.luguber.info/inful/postview/internal/post"
)

const (
	DefaultManifest        = "posts/posts.json"
	DefaultDirectoryPath   = "posts"
	DefaultGitHubAPIURL    = "https://api.github.com"
	DefaultFetchTimeout    = 30 * time.Second
	DefaultFetchConcurrent = 8
	DefaultServerAddr      = ":8080"
	DefaultServerTitle     = "Blog"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Watch:   true,
			Metrics: true,
		},
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills empty fields. Booleans are defaulted by Default since
// an explicit false cannot be told apart from an omitted key here.
func applyDefaults(cfg *Config) {
	if cfg.Source.Strategy == "" {
		cfg.Source.Strategy = post.StrategyManifest
	}
	if cfg.Source.Manifest == "" {
		cfg.Source.Manifest = DefaultManifest
	}
	if cfg.Source.Directory.Path == "" {
		cfg.Source.Directory.Path = DefaultDirectoryPath
	}
	if cfg.Source.Directory.APIURL == "" {
		cfg.Source.Directory.APIURL = DefaultGitHubAPIURL
	}
	if cfg.Fetch.Timeout <= 0 {
		cfg.Fetch.Timeout = DefaultFetchTimeout
	}
	if cfg.Fetch.Concurrency <= 0 {
		cfg.Fetch.Concurrency = DefaultFetchConcurrent
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.Title == "" {
		cfg.Server.Title = DefaultServerTitle
	}
}
