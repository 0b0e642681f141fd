package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/post"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("source:\n  strategy: manifest\n"))
	require.NoError(t, err)

	assert.Equal(t, post.StrategyManifest, cfg.Source.Strategy)
	assert.Equal(t, DefaultManifest, cfg.Source.Manifest)
	assert.Equal(t, DefaultGitHubAPIURL, cfg.Source.Directory.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 8, cfg.Fetch.Concurrency)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.Watch)
	assert.True(t, cfg.Server.Metrics)
}

func TestParse_ExplicitValues(t *testing.T) {
	yml := `
source:
  strategy: directory
  directory:
    owner: octo
    repo: blog
    branch: main
    path: content/posts
fetch:
  timeout: 5s
  concurrency: 2
markdown:
  unsafe_html: true
server:
  addr: "127.0.0.1:9000"
  refresh_interval: 10m
  watch: false
  metrics: false
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, post.StrategyDirectory, cfg.Source.Strategy)
	assert.Equal(t, "octo", cfg.Source.Directory.Owner)
	assert.Equal(t, "content/posts", cfg.Source.Directory.Path)
	assert.False(t, cfg.Source.Directory.IsLocal())
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Fetch.Concurrency)
	assert.True(t, cfg.Markdown.UnsafeHTML)
	assert.Equal(t, 10*time.Minute, cfg.Server.RefreshInterval)
	assert.False(t, cfg.Server.Watch)
	assert.False(t, cfg.Server.Metrics)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("POSTVIEW_TEST_TOKEN", "s3cret")
	cfg, err := Parse([]byte("source:\n  strategy: directory\n  directory:\n    local: posts\n    token: ${POSTVIEW_TEST_TOKEN}\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Source.Directory.Token)
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"unknown strategy", "source:\n  strategy: ftp\n"},
		{"directory without location", "source:\n  strategy: directory\n"},
		{"concurrency too high", "fetch:\n  concurrency: 1000\n"},
		{"negative refresh", "server:\n  refresh_interval: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yml))
			require.Error(t, err)
			assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("source: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestInit_ThenLoad(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), DefaultPath)

	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, post.StrategyManifest, cfg.Source.Strategy)
	assert.Equal(t, "posts/posts.json", cfg.Source.Manifest)
	assert.Equal(t, "from-env", cfg.Source.Directory.Token)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)

	err = Init(path, false)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))

	require.NoError(t, Init(path, true))
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("POSTVIEW_SET", "process")

	require.NoError(t, os.WriteFile(".env", []byte("POSTVIEW_SET=file\nPOSTVIEW_FROM_FILE=dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("POSTVIEW_FROM_FILE") })
	require.NoError(t, os.WriteFile(DefaultPath, []byte(
		"source:\n  strategy: directory\n  directory:\n    local: ${POSTVIEW_FROM_FILE}\n    token: ${POSTVIEW_SET}\n"), 0o600))

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.Source.Directory.Local)
	assert.Equal(t, "process", cfg.Source.Directory.Token)
}
