package bibtex

import (
	"reflect"
	"testing"
)

func TestParseWellFormedEntry(t *testing.T) {
	raw := `@article{k2023, title={A Study}, author={A. One and B. Two}, year={2023}, journal={Nature}, doi={10.1/x}}`
	entries := Parse(raw)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Type != "article" || e.Citekey != "k2023" {
		t.Fatalf("unexpected header: %+v", e)
	}
	want := map[string]string{
		"title":   "A Study",
		"author":  "A. One and B. Two",
		"year":    "2023",
		"journal": "Nature",
		"doi":     "10.1/x",
	}
	if !reflect.DeepEqual(e.Fields, want) {
		t.Fatalf("fields mismatch:\n got  %#v\n want %#v", e.Fields, want)
	}
}

func TestParseValueCleaning(t *testing.T) {
	cases := []struct {
		name string
		bib  string
		key  string
		want string
	}{
		{"nested braces unwrap one level", `@article{a, title = {Deep {Nested} Title}}`, "title", "Deep Nested Title"},
		{"quoted with escaped quote", `@article{a, title = "Say \"Hi\""}`, "title", `Say \"Hi\"`},
		{"bareword", "@article{a, year = 2020,\n}", "year", "2020"},
		{"whitespace collapsed", "@article{a, title = {Two\n  Lines}}", "title", "Two Lines"},
		{"unterminated quote consumes to end of block", `@article{a, title = "abc}`, "title", "abc"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entries := Parse(tc.bib)
			if len(entries) != 1 {
				t.Fatalf("expected 1 entry, got %d", len(entries))
			}
			if got := entries[0].Fields[tc.key]; got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseDuplicateFieldLastWins(t *testing.T) {
	entries := Parse(`@misc{m, note={first}, note={second}}`)
	if len(entries) != 1 || entries[0].Fields["note"] != "second" {
		t.Fatalf("expected last value to win: %+v", entries)
	}
}

func TestParseEmptyValueDropped(t *testing.T) {
	entries := Parse(`@misc{m, note={}, title={T}}`)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, ok := entries[0].Fields["note"]; ok {
		t.Fatalf("empty note should not be stored: %+v", entries[0].Fields)
	}
	if entries[0].Fields["title"] != "T" {
		t.Fatalf("title lost: %+v", entries[0].Fields)
	}
}

func TestParseCommentLinesStripped(t *testing.T) {
	raw := "% leading comment\n@article{a, title={One}}\n  % between entries\n@article{b, title={Two}}\n"
	entries := Parse(raw)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Fields["title"] != "One" || entries[1].Fields["title"] != "Two" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestParseMalformedHeaderAdvances(t *testing.T) {
	// Bare '@' runs must not stall the scanner or produce entries.
	raw := "@@@ @ {x} @article{ok, title={Fine}}"
	entries := Parse(raw)
	if len(entries) != 1 || entries[0].Citekey != "ok" {
		t.Fatalf("expected the one valid entry, got %+v", entries)
	}
}

func TestParseNoCommaAfterCitekeyStops(t *testing.T) {
	if entries := Parse(`@misc{orphan}`); len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestParseCitekeyNotBraceAware(t *testing.T) {
	// A braced citekey containing a comma truncates at the comma.
	entries := Parse(`@article{{key,with}, title={T}}`)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Citekey != "{key" {
		t.Fatalf("citekey = %q, want %q", entries[0].Citekey, "{key")
	}
}

func TestParseBadFieldTruncatesEntry(t *testing.T) {
	raw := "@article{a,\n  title={Kept},\n  !!broken,\n  year={2020}\n}"
	entries := Parse(raw)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	f := entries[0].Fields
	if f["title"] != "Kept" {
		t.Fatalf("title lost: %+v", f)
	}
	if _, ok := f["year"]; ok {
		t.Fatalf("fields after the broken one should be discarded: %+v", f)
	}
}

func TestParseMultipleEntriesAndCaseFolding(t *testing.T) {
	raw := "@ARTICLE{A1, TITLE={First}}\n\n@InProceedings{b2, BookTitle={Conf}}"
	entries := Parse(raw)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Type != "article" || entries[0].Fields["title"] != "First" {
		t.Fatalf("case folding failed: %+v", entries[0])
	}
	if entries[1].Type != "inproceedings" || entries[1].Fields["booktitle"] != "Conf" {
		t.Fatalf("case folding failed: %+v", entries[1])
	}
}

func TestParseUnclosedEntryStillEmitted(t *testing.T) {
	entries := Parse("@article{a, title={Partial}, year={2021}")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	f := entries[0].Fields
	if f["title"] != "Partial" {
		t.Fatalf("unexpected fields: %+v", f)
	}
	// The final value never closes, so it keeps its dangling brace.
	if f["year"] != "{2021" {
		t.Fatalf("year = %q, want %q", f["year"], "{2021")
	}
}
