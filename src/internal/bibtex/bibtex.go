// Package bibtex parses BibTeX exports (e.g. from Google Scholar) with a
// tolerant character-cursor scanner. Malformed entries are skipped or
// truncated; the scanner never fails a whole file over one bad record.
package bibtex

import (
	"regexp"
	"strings"

	"pubsite/src/internal/stringsx"
)

// Entry is one top-level @type{key, ...} block. Type and field names are
// lowercased; duplicate field names keep the last value seen.
type Entry struct {
	Type    string
	Citekey string
	Fields  map[string]string
}

var (
	entryTypeRe = regexp.MustCompile(`^([A-Za-z]+)\s*\{`)
	fieldNameRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_\-]*)\s*=`)
	braceWordRe = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Parse scans raw BibTeX text into entries.
func Parse(raw string) []Entry {
	raw = stripLineComments(raw)

	var entries []Entry
	i, n := 0, len(raw)
	for i < n {
		at := strings.IndexByte(raw[i:], '@')
		if at < 0 {
			break
		}
		// Advance past the '@' so an unmatched header cannot stall the scan.
		i += at + 1

		m := entryTypeRe.FindStringSubmatch(raw[i:])
		if m == nil {
			continue
		}
		typ := strings.ToLower(m[1])
		i += len(m[0]) // positioned after '{'

		// Citekey runs to the next comma. Deliberately not brace-aware: a
		// braced citekey containing a comma truncates at the comma.
		comma := strings.IndexByte(raw[i:], ',')
		if comma < 0 {
			break
		}
		citekey := strings.TrimSpace(raw[i : i+comma])
		i += comma + 1

		start := i
		depth := 1
		for i < n && depth > 0 {
			switch raw[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			i++
		}
		block := ""
		if i > start {
			block = raw[start : i-1]
		}

		entries = append(entries, Entry{Type: typ, Citekey: citekey, Fields: parseFields(block)})
	}
	return entries
}

// parseFields tokenizes the text between an entry's citekey comma and its
// closing brace. A field that fails the name pattern ends the entry; the
// remainder is discarded.
func parseFields(block string) map[string]string {
	fields := map[string]string{}
	j, n := 0, len(block)
	for j < n {
		for j < n && strings.IndexByte("\n\r\t ,", block[j]) >= 0 {
			j++
		}
		if j >= n {
			break
		}

		m := fieldNameRe.FindStringSubmatch(block[j:])
		if m == nil {
			break
		}
		name := strings.ToLower(m[1])
		j += len(m[0])

		raw, next := parseValue(block, j)
		j = next
		if v := cleanValue(raw); v != "" {
			fields[name] = v
		}

		// Skip to the field separator, but never past the current line.
		for j < n && block[j] != ',' {
			if block[j] == '\n' {
				break
			}
			j++
		}
		if j < n && block[j] == ',' {
			j++
		}
	}
	return fields
}

// parseValue reads one field value starting at text[i]. Brace values keep
// their outer braces, quoted values come back wrapped in quotes; both are
// stripped later by cleanValue. An unterminated quote consumes to the end of
// the block.
func parseValue(text string, i int) (string, int) {
	n := len(text)
	for i < n && isSpace(text[i]) {
		i++
	}
	if i >= n {
		return "", i
	}

	switch text[i] {
	case '{':
		depth := 0
		start := i
		for i < n {
			switch text[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					i++
					return strings.TrimSpace(text[start:i]), i
				}
			}
			i++
		}
		return strings.TrimSpace(text[start:i]), i
	case '"':
		i++
		start := i
		escaped := false
		for i < n {
			ch := text[i]
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				v := text[start:i]
				i++
				return `"` + v + `"`, i
			}
			i++
		}
		return `"` + text[start:] + `"`, i
	}

	// Bareword (rare in Scholar exports).
	start := i
	for i < n && strings.IndexByte(",\n\r}", text[i]) < 0 {
		i++
	}
	return strings.TrimSpace(text[start:i]), i
}

// cleanValue normalizes a raw value: outer whitespace and one trailing comma
// go, one matching pair of outer {...} or "..." delimiters goes, whitespace
// runs collapse to single spaces, and flat {word} brace-protection unwraps
// one level.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, ",")
	if len(v) >= 2 && ((v[0] == '{' && v[len(v)-1] == '}') || (v[0] == '"' && v[len(v)-1] == '"')) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	v = stringsx.CollapseSpace(v)
	v = braceWordRe.ReplaceAllString(v, "$1")
	return strings.TrimSpace(v)
}

// stripLineComments drops every line whose first non-whitespace character
// is '%'.
func stripLineComments(raw string) string {
	lines := strings.Split(raw, "\n")
	kept := lines[:0]
	for _, ln := range lines {
		if strings.HasPrefix(strings.TrimLeft(ln, " \t\r\f\v"), "%") {
			continue
		}
		kept = append(kept, ln)
	}
	return strings.Join(kept, "\n")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
