package commands

import (
	"context"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/postview/internal/fetch"
	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/index"
	"git.home.luguber.info/inful/postview/internal/markdown"
)

// ManifestCmd implements the 'manifest' command.
type ManifestCmd struct {
	Dir         string `arg:"" help:"Local directory of Markdown posts" type:"existingdir"`
	Output      string `short:"o" help:"Manifest file to write (default: stdout)" type:"path"`
	Concurrency int    `help:"Maximum concurrent file reads" default:"8"`
}

func (m *ManifestCmd) Run(g *Global, _ *CLI) error {
	return RunManifest(context.Background(), g, m.Dir, m.Output, m.Concurrency)
}

// RunManifest scans dir and writes a manifest in index order. File values are
// relative to the manifest's own directory when output is set, otherwise to dir.
// Posts without a front matter title take their first heading as title.
func RunManifest(ctx context.Context, g *Global, dir, output string, concurrency int) error {
	source := index.NewDirectorySource(&index.LocalLister{Dir: dir}, fetch.FileFetcher{}, concurrency)
	coll, err := index.NewBuilder(source).Build(ctx)
	if err != nil {
		return err
	}

	base := dir
	if output != "" {
		base = filepath.Dir(output)
	}

	entries := coll.Entries()
	manifest := make([]index.ManifestEntry, 0, len(entries))
	for _, e := range entries {
		summary := e.Summary
		if !summary.HasExplicitTitle() && e.Post != nil {
			if h := markdown.FirstHeading(e.Post.Body); h != "" {
				summary.Title = h
			}
		}
		file := manifestPath(base, filepath.Join(dir, e.Summary.SourceName))
		manifest = append(manifest, index.ManifestEntryFor(summary, file))
	}

	data, err := index.EncodeManifest(manifest)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = g.out().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write manifest").
			WithContext("path", output).
			Build()
	}
	return nil
}

// manifestPath expresses file relative to base with forward slashes, falling
// back to the absolute path when no relative path exists.
func manifestPath(base, file string) string {
	if rel, err := filepath.Rel(base, file); err == nil {
		return filepath.ToSlash(rel)
	}
	if abs, err := filepath.Abs(file); err == nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(file)
}
