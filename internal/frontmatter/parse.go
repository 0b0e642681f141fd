package frontmatter

import "strings"

// Parsed is the result of reading a raw document.
type Parsed struct {
	// Metadata holds the flat key/value pairs. It is never nil.
	Metadata map[string]string
	// Body is the document with any block removed, surrounding whitespace trimmed.
	Body string
	// Had reports whether a complete block was found.
	Had bool
}

// Parse splits raw into metadata and body. It never fails: a missing or
// unterminated block yields empty metadata and the whole document as body.
func Parse(raw string) Parsed {
	fm, body, had, _, err := Split([]byte(raw))
	if err != nil || !had {
		return Parsed{Metadata: map[string]string{}, Body: strings.TrimSpace(raw)}
	}
	return Parsed{
		Metadata: ParseFields(string(fm)),
		Body:     strings.TrimSpace(string(body)),
		Had:      true,
	}
}

// ParseFields reads a block (without delimiters) as `key: value` lines.
//
// Each line is split on its first colon. Lines without a colon or with an
// empty key are skipped. Values wrapped in matching single or double quotes
// lose the quotes. Later duplicates overwrite earlier ones.
func ParseFields(block string) map[string]string {
	fields := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = unquote(strings.TrimSpace(value))
	}
	return fields
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}
