// Package commands implements the postview CLI subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/metrics"
	"git.home.luguber.info/inful/postview/internal/post"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
	// Out receives command output. Nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"postview.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	List     ListCmd     `cmd:"" help:"Build the post index and print it"`
	Show     ShowCmd     `cmd:"" help:"Print one post as HTML (default: the newest)"`
	Serve    ServeCmd    `cmd:"" help:"Run the HTTP viewer"`
	Manifest ManifestCmd `cmd:"" help:"Generate a manifest from a local posts directory"`
	New      NewCmd      `cmd:"" help:"Scaffold a new post with front matter"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// buildIndex loads the configured source and builds its collection once.
func buildIndex(ctx context.Context, cfg *config.Config, fetcher fetch.Fetcher, rec metrics.Recorder) (*post.Collection, error) {
	source, err := index.NewSource(cfg, fetcher, rec)
	if err != nil {
		return nil, err
	}
	return index.NewBuilder(source).WithRecorder(rec).Build(ctx)
}
