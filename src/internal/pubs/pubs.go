// Package pubs projects parsed BibTeX entries into the publication records
// served to the website.
package pubs

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"pubsite/src/internal/bibtex"
	"pubsite/src/internal/stringsx"
)

// Publication is one record in the site's publications array. Optional
// attributes are pointers or omitempty values so an absent field never
// serializes; Title and Type are always present, even when empty.
type Publication struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Year    *int     `json:"year,omitempty"`
	Venue   string   `json:"venue,omitempty"`
	Type    string   `json:"type"`
	Links   *Links   `json:"links,omitempty"`
}

// Links holds a publication's external pointers.
type Links struct {
	DOI string `json:"doi,omitempty"`
	URL string `json:"url,omitempty"`
}

// DefaultVenueFields is the priority order for picking a venue.
var DefaultVenueFields = []string{"journal", "booktitle", "publisher", "school"}

var yearRe = regexp.MustCompile(`\d{4}`)

// Project converts entries in input order. Call Sort for display order.
func Project(entries []bibtex.Entry, venueFields []string) []Publication {
	out := make([]Publication, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e, venueFields))
	}
	return out
}

// FromEntry maps a single entry to a Publication.
func FromEntry(e bibtex.Entry, venueFields []string) Publication {
	if len(venueFields) == 0 {
		venueFields = DefaultVenueFields
	}
	f := e.Fields

	p := Publication{
		Title: strings.TrimSpace(f["title"]),
		Type:  e.Type,
	}
	if a := f["author"]; a != "" {
		p.Authors = splitAuthors(a)
	}
	p.Year = extractYear(f["year"])

	vals := make([]string, len(venueFields))
	for i, k := range venueFields {
		vals[i] = f[k]
	}
	p.Venue = stringsx.FirstNonEmpty(vals...)

	links := Links{DOI: strings.TrimSpace(f["doi"]), URL: strings.TrimSpace(f["url"])}
	if links != (Links{}) {
		p.Links = &links
	}
	return p
}

// Sort orders records newest-first: undated records compare as newest, then
// year descending, ties broken by case-insensitive title. Stable.
func Sort(records []Publication) {
	sort.SliceStable(records, func(i, j int) bool {
		yi, yj := sortYear(records[i]), sortYear(records[j])
		if yi != yj {
			return yi > yj
		}
		return strings.ToLower(records[i].Title) < strings.ToLower(records[j].Title)
	})
}

func sortYear(p Publication) int {
	if p.Year == nil {
		return math.MaxInt
	}
	return *p.Year
}

// splitAuthors breaks a BibTeX author field on the " and " separator.
func splitAuthors(s string) []string {
	parts := strings.Split(s, " and ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// extractYear pulls the first 4-digit run out of a year field, if any.
func extractYear(s string) *int {
	m := yearRe.FindString(s)
	if m == "" {
		return nil
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &y
}
