package bibtex

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Preferred field order for rendered entries; anything else follows sorted.
var renderOrder = []string{"author", "title", "journal", "booktitle", "publisher", "school", "year", "doi", "url"}

// Render writes entries back out as normalized BibTeX, one blank line
// between records.
func Render(entries []Entry) string {
	var b bytes.Buffer
	for _, e := range entries {
		b.WriteString(renderEntry(e))
	}
	return b.String()
}

func renderEntry(e Entry) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Citekey)
	seen := map[string]bool{}
	write := func(k string) {
		if v, ok := e.Fields[k]; ok && strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", k, v)
			seen[k] = true
		}
	}
	for _, k := range renderOrder {
		write(k)
	}
	extras := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		write(k)
	}
	// Close the record, dropping the trailing comma.
	out := b.String()
	out = strings.TrimRight(out, "\n")
	out = strings.TrimRight(out, ",")
	return out + "\n}\n\n"
}
