// Package ursids extracts bear species records from the wikitext of the
// "List of ursids" article. Extraction is best-effort pattern matching over
// {{Species table/row}} template invocations, not general wikitext parsing.
package ursids

import (
	"regexp"
	"strings"
)

// Template markers delimiting species tables and their rows
const (
	TableEndMarker = "{{Species table/end}}"
	RowMarker      = "{{Species table/row"
)

var (
	// Bracket-bounded, so the linked text may wrap across lines
	nameRe     = regexp.MustCompile(`\|name=\[\[((?s:.+?))\]\]`)
	binomialRe = regexp.MustCompile(`(?m)\|binomial=(.+?)\r?$`)
	imageRe    = regexp.MustCompile(`(?m)\|image=(.+?)\r?$`)
	rangeRe    = regexp.MustCompile(`\|range=([^|\r\n]+)`)
)

// Species is one extracted table row. ImageFile is a bare filename that has
// not yet been resolved to a URL.
type Species struct {
	Name      string
	Binomial  string
	ImageFile string
	Range     string
}

// Result is the outcome of one extraction pass.
type Result struct {
	// Species in source order
	Species []Species

	// Skipped counts rows that lacked at least one required field
	Skipped int
}

// Extract splits wikitext into species tables and rows and returns every row
// that carries all four fields. Rows missing a field are dropped; that is the
// tolerance for irregular markup, not an error.
func Extract(wikitext string) Result {
	result := Result{Species: []Species{}}
	if wikitext == "" {
		return result
	}

	for _, table := range strings.Split(wikitext, TableEndMarker) {
		for i, row := range strings.Split(table, RowMarker) {
			species, ok := ParseRow(row)
			if ok {
				result.Species = append(result.Species, species)
				continue
			}
			// Text ahead of the first row marker is table preamble, not a row
			if i > 0 {
				result.Skipped++
			}
		}
	}

	return result
}

// ParseRow extracts the four fields from a single row segment. It reports
// false if any field is absent.
func ParseRow(row string) (Species, bool) {
	name := nameRe.FindStringSubmatch(row)
	binomial := binomialRe.FindStringSubmatch(row)
	image := imageRe.FindStringSubmatch(row)
	rng := rangeRe.FindStringSubmatch(row)

	if name == nil || binomial == nil || image == nil || rng == nil {
		return Species{}, false
	}

	return Species{
		Name:      name[1],
		Binomial:  binomial[1],
		ImageFile: ImageFilename(image[1]),
		Range:     rng[1],
	}, true
}

// ImageFilename reduces an |image= value to a bare filename: the optional
// "File:" prefix is removed and any |size or |caption parameters are cut.
func ImageFilename(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "File:")
	if idx := strings.Index(name, "|"); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}
