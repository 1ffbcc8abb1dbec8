// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tableedit

import (
	"regexp"
	"strings"
)

// NoisePattern describes one class of rows to strip. Exact patterns are
// removed by literal match, Regexp patterns by regular expression; a
// pattern carries one or the other.
type NoisePattern struct {
	Name   string
	Exact  string
	Regexp *regexp.Regexp
}

// placeholderRow is the compact placeholder row that earlier manual test
// updates left in the table.
const placeholderRow = `<tr><td><p>TEST</p></td><td><p>TEST</p></td><td>TEST</td><td><p>TEST</p></td>` +
	`<td><div class="content-wrapper"><p><ac:structured-macro ac:name="status-handy" ac:schema-version="1">` +
	`<ac:parameter ac:name="Status">TEST</ac:parameter></ac:structured-macro></p></div></td>` +
	`<td><div class="content-wrapper"><p>TEST</p></div></td></tr>`

var (
	// The wiki assigns macro IDs on save, so a stored placeholder row may
	// carry an ac:macro-id attribute the literal pattern misses.
	placeholderWithMacroID = regexp.MustCompile(
		`(?si)<tr><td><p>TEST</p></td><td><p>TEST</p></td><td>TEST</td><td><p>TEST</p></td>` +
			`<td><div class="content-wrapper"><p><ac:structured-macro ac:name="status-handy" ac:schema-version="1"` +
			` ac:macro-id="[^"]*"><ac:parameter ac:name="Status">TEST</ac:parameter></ac:structured-macro></p></div></td>` +
			`<td><div class="content-wrapper"><p>TEST</p></div></td></tr>`)

	// Rows whose every cell is empty or whitespace-only, with or without
	// empty paragraph wrappers.
	emptyCellsRow = regexp.MustCompile(
		`(?si)<tr>\s*(?:<td[^>]*>\s*(?:<p>(?:&nbsp;|\s)*</p>|&nbsp;|\s)*\s*</td>\s*)+</tr>`)
)

// DefaultNoisePatterns returns the built-in set: exact placeholder rows
// and all-empty rows.
func DefaultNoisePatterns() []NoisePattern {
	return []NoisePattern{
		{Name: "placeholder row", Exact: placeholderRow},
		{Name: "placeholder row (macro id)", Regexp: placeholderWithMacroID},
		{Name: "empty row", Regexp: emptyCellsRow},
	}
}

// StripNoiseRows removes every row matching any pattern and reports how
// many rows were removed. A second pass over already-clean content
// removes zero rows.
func StripNoiseRows(content string, patterns []NoisePattern) (string, int) {
	removed := 0
	for _, p := range patterns {
		switch {
		case p.Exact != "":
			n := strings.Count(content, p.Exact)
			if n > 0 {
				content = strings.ReplaceAll(content, p.Exact, "")
				removed += n
			}
		case p.Regexp != nil:
			matches := p.Regexp.FindAllStringIndex(content, -1)
			if len(matches) > 0 {
				content = p.Regexp.ReplaceAllString(content, "")
				removed += len(matches)
			}
		}
	}
	return content, removed
}
