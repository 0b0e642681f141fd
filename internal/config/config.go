// Package config loads the postview YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/post"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "postview.yaml"

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Server   ServerConfig   `yaml:"server"`
}

// SourceConfig selects where posts are discovered.
type SourceConfig struct {
	Strategy  post.Strategy   `yaml:"strategy"`
	Manifest  string          `yaml:"manifest,omitempty"` // path or URL of the JSON manifest
	Directory DirectoryConfig `yaml:"directory"`
}

// DirectoryConfig configures the directory-listing strategy. When Local is set
// the posts are read from that directory and the API fields are ignored.
type DirectoryConfig struct {
	Local  string `yaml:"local,omitempty"`
	Owner  string `yaml:"owner,omitempty"`
	Repo   string `yaml:"repo,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"`
	APIURL string `yaml:"api_url,omitempty"`
	Token  string `yaml:"token,omitempty"`
}

// IsLocal reports whether the directory strategy reads a local directory.
func (d DirectoryConfig) IsLocal() bool { return d.Local != "" }

// FetchConfig configures the transport.
type FetchConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

// MarkdownConfig configures rendering.
type MarkdownConfig struct {
	UnsafeHTML bool `yaml:"unsafe_html"`
	HardWraps  bool `yaml:"hard_wraps"`
}

// ServerConfig configures the HTTP viewer.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Title           string        `yaml:"title"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	Watch           bool          `yaml:"watch"`
	Metrics         bool          `yaml:"metrics"`
}

// Load loads configuration from the specified file.
//
// .env files are loaded first (without overriding the process environment),
// then ${VAR} references in the file are expanded. Fields the file omits keep
// their defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	// #nosec G304 -- configuration path is supplied by the operator.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expands environment variables, applies
// defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expandedData := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}

	return nil
}

const exampleConfig = `# postview configuration
source:
  # manifest: read posts/posts.json; directory: list a folder
  strategy: manifest
  manifest: posts/posts.json
  directory:
    # read a local folder instead of the GitHub Contents API
    local: ""
    owner: example
    repo: blog
    branch: main
    path: posts
    api_url: https://api.github.com
    token: ${GITHUB_TOKEN}
fetch:
  timeout: 30s
  concurrency: 8
markdown:
  unsafe_html: false
  hard_wraps: false
server:
  addr: ":8080"
  title: Blog
  # 0s disables periodic refresh
  refresh_interval: 0s
  watch: true
  metrics: true
`
