// Package frontmatter splits `---` delimited metadata blocks from Markdown
// documents and reads them as flat `key: value` pairs.
//
// Only flat pairs are supported: no nesting, lists or multi-line scalars.
// The syntax is deliberately a line scanner rather than a YAML decoder.
package frontmatter

import (
	"bytes"
	"errors"
)

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and does not
// attempt to preserve original formatting of the block.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates a `---` delimited frontmatter block from the Markdown body.
//
// Both delimiters must occupy a whole line: the document's first line must be
// exactly `---` and the block ends at the next line that is exactly `---`
// (a trailing \r is tolerated). The closing line may be the last line of the
// document without a newline.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. If it starts with one but never closes it, Split returns
// ErrMissingClosingDelimiter.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	first, rest, _ := cutLine(content)
	if !isDelimiter(first) {
		return nil, content, false, style, nil
	}

	start := len(content) - len(rest)
	offset := start
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if isDelimiter(line) {
			return content[start:offset], next, true, style, nil
		}
		offset += len(rest) - len(next)
		rest = next
	}

	return nil, nil, false, style, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
// If had is true, Join emits the block using `---` delimiters and the
// newline style captured in Style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	open := []byte("---" + nl)
	closing := []byte("---" + nl)

	out := make([]byte, 0, len(open)+len(frontmatter)+len(closing)+len(body))
	out = append(out, open...)
	out = append(out, frontmatter...)
	out = append(out, closing...)
	out = append(out, body...)
	return out
}

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter line but did not contain a closing delimiter line.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

func cutLine(b []byte) (line, rest []byte, found bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == "---"
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
