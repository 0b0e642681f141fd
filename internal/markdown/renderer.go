// Package markdown renders post bodies to HTML and extracts the bits of a
// post the viewer needs (first heading, description).
package markdown

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
)

// Options controls rendering.
type Options struct {
	// UnsafeHTML passes raw HTML in posts through to the output.
	UnsafeHTML bool
	HardWraps  bool
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a goldmark engine with GFM, footnotes and heading IDs.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.UnsafeHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}
}

// Render converts body to HTML.
func (r *Renderer) Render(body string) (string, error) {
	return r.RenderWithBase(body, "")
}

// RenderWithBase converts body to HTML, resolving relative link and image
// destinations against base when base is an http(s) URL. This keeps images
// that sit next to a remotely hosted post working.
func (r *Renderer) RenderWithBase(body, base string) (string, error) {
	src := []byte(body)
	root := r.md.Parser().Parse(text.NewReader(src))

	if baseURL := httpBase(base); baseURL != nil {
		rebaseLinks(root, baseURL)
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, root); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "failed to render markdown").Build()
	}
	return buf.String(), nil
}

func httpBase(base string) *url.URL {
	if base == "" {
		return nil
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return u
}

func rebaseLinks(root gmast.Node, base *url.URL) {
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Link:
			node.Destination = rebase(node.Destination, base)
		case *gmast.Image:
			node.Destination = rebase(node.Destination, base)
		}
		return gmast.WalkContinue, nil
	})
}

func rebase(dest []byte, base *url.URL) []byte {
	d := string(dest)
	if d == "" || strings.HasPrefix(d, "#") || strings.HasPrefix(d, "/") {
		return dest
	}
	ref, err := url.Parse(d)
	if err != nil || ref.Scheme != "" {
		return dest
	}
	return []byte(base.ResolveReference(ref).String())
}
