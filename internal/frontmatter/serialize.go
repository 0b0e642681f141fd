package frontmatter

import (
	"fmt"
	"sort"
	"strings"
)

// SerializeFlat renders fields as `key: value` lines (without delimiters)
// that ParseFields reads back unchanged.
//
// Keys are sorted to keep output stable. Values with surrounding whitespace,
// or that already look quoted, are wrapped in double quotes so the reader's
// trimming and quote stripping return the same value. Keys and values spanning
// several lines are rejected.
func SerializeFlat(fields map[string]string, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if strings.ContainsAny(k, "\r\n:") || strings.TrimSpace(k) != k || k == "" {
			return nil, fmt.Errorf("invalid frontmatter key %q", k)
		}
		if strings.ContainsAny(v, "\r\n") {
			return nil, fmt.Errorf("frontmatter value for %q spans multiple lines", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(":")
		if v := fields[k]; v != "" {
			b.WriteString(" ")
			b.WriteString(quoteIfNeeded(v))
		}
		b.WriteString(nl)
	}
	return []byte(b.String()), nil
}

func quoteIfNeeded(v string) string {
	if v != strings.TrimSpace(v) || unquote(v) != v {
		return `"` + v + `"`
	}
	return v
}
