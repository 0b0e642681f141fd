package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	json "github.com/goccy/go-json"

	"git.home.luguber.info/inful/postview/internal/config"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/post"
)

// ListCmd implements the 'list' command.
type ListCmd struct {
	JSON bool `help:"Print the index as JSON"`
}

func (l *ListCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return RunList(context.Background(), g, cfg, l.JSON)
}

func RunList(ctx context.Context, g *Global, cfg *config.Config, asJSON bool) error {
	coll, err := buildIndex(ctx, cfg, index.NewFetcher(cfg), nil)
	if err != nil {
		return err
	}
	summaries := coll.Summaries()

	if asJSON {
		if summaries == nil {
			summaries = []post.Summary{}
		}
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(g.out(), "%s\n", data)
		return err
	}

	if len(summaries) == 0 {
		_, err := fmt.Fprintln(g.out(), "No posts.")
		return err
	}
	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSLUG\tTITLE")
	for _, s := range summaries {
		date := s.Date
		if date == "" {
			date = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", date, s.Slug, s.Title)
	}
	return tw.Flush()
}
