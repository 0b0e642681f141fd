package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/postview/internal/foundation/errors"
	"git.home.luguber.info/inful/postview/internal/frontmatter"
	"git.home.luguber.info/inful/postview/internal/post"
)

const dateLayout = "2006-01-02"

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title string `arg:"" help:"Post title"`
	Dir   string `help:"Directory to create the post in" default:"posts" type:"path"`
	Date  string `help:"Publication date (YYYY-MM-DD, default: today)"`
	Force bool   `help:"Overwrite an existing file"`
}

func (n *NewCmd) Run(g *Global, _ *CLI) error {
	date := n.Date
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	path, err := RunNew(n.Dir, n.Title, date, n.Force)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out(), "Created %s\n", path)
	return err
}

// RunNew writes dir/<slug>.md with title, date and slug front matter and
// returns its path.
func RunNew(dir, title, date string, force bool) (string, error) {
	title = cases.Title(language.English, cases.NoLower).String(strings.TrimSpace(title))
	if title == "" {
		return "", errors.ValidationError("title is required").Build()
	}
	if _, ok := post.ParseDate(date); !ok {
		return "", errors.ValidationError("invalid date").
			WithContext("date", date).
			WithContext("expected", dateLayout).
			Build()
	}

	s, err := slug.Normalize(title)
	if err != nil || s == "" {
		return "", errors.ValidationError("title does not produce a usable slug").
			WithContext("title", title).
			WithCause(err).
			Build()
	}

	fields := map[string]string{
		post.KeyTitle: title,
		post.KeyDate:  date,
		post.KeySlug:  s,
	}
	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true}
	fm, err := frontmatter.SerializeFlat(fields, style)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "invalid front matter").Build()
	}
	content := frontmatter.Join(fm, []byte("# "+title+"\n"), true, style)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create post directory").
			WithContext("path", dir).
			Build()
	}
	path := filepath.Join(dir, s+".md")
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", errors.ValidationError("post already exists (use --force to overwrite)").
				WithContext("path", path).
				Build()
		}
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create post").
			WithContext("path", path).
			Build()
	}
	if err := writeAndClose(f, content); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write post").
			WithContext("path", path).
			Build()
	}
	return path, nil
}

// writeAndClose writes content and closes w. A close error is returned when
// the write succeeded, since it may be the only sign of a failed flush.
func writeAndClose(w io.WriteCloser, content []byte) error {
	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
