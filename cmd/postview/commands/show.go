package commands

import (
	"context"
	"fmt"
	"os"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/markdown"
	"git.home.luguber.info/inful/postview/internal/resolve"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	ID     string `arg:"" optional:"" help:"Slug or file name of the post (default: the first post)"`
	Raw    bool   `help:"Print the Markdown body instead of HTML"`
	Output string `short:"o" help:"Write to a file instead of stdout" type:"path"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return RunShow(context.Background(), g, cfg, s.ID, s.Raw, s.Output)
}

func RunShow(ctx context.Context, g *Global, cfg *config.Config, id string, raw bool, output string) error {
	fetcher := index.NewFetcher(cfg)
	coll, err := buildIndex(ctx, cfg, fetcher, nil)
	if err != nil {
		return err
	}

	p, found, err := resolve.NewResolver(fetcher).Resolve(ctx, coll, id)
	if err != nil {
		return err
	}
	if !found {
		return errors.NotFoundError("post not found").WithContext("id", id).Build()
	}

	content := p.Body
	if !raw {
		renderer := markdown.NewRenderer(markdown.Options{
			UnsafeHTML: cfg.Markdown.UnsafeHTML,
			HardWraps:  cfg.Markdown.HardWraps,
		})
		content, err = renderer.RenderWithBase(p.Body, p.Summary.Location)
		if err != nil {
			return err
		}
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output").
				WithContext("path", output).
				Build()
		}
		return nil
	}
	_, err = fmt.Fprint(g.out(), content)
	return err
}
