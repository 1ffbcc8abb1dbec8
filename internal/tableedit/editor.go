// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tableedit performs structural edits on the publications table
// markup. Row boundaries are located by anchor-scanning from known
// markers (the body-close tag, the last row-close tag) rather than by
// parsing the document tree: cells nest structured macros that a naive
// full parse would mis-bracket, while rows themselves are never nested.
//
// Every operation is a pure transformation over the content string; no
// network, no external state.
package tableedit

import (
	"errors"
	"strings"
)

var (
	// ErrNoTableBody means the content has no table body close marker
	// to anchor an insert on.
	ErrNoTableBody = errors.New("no table body close marker")

	// ErrRowNotFound means the row markup does not occur in the content.
	// Removing an already-removed row fails with this, it does not crash.
	ErrRowNotFound = errors.New("row not found")

	// ErrHeaderRow means the last row is the header row, which is
	// protected from removal.
	ErrHeaderRow = errors.New("refusing to remove header row")
)

const (
	bodyClose  = "</tbody>"
	rowOpen    = "<tr"
	rowClose   = "</tr>"
	headerCell = "<th"
)

// InsertRow splices rowMarkup immediately before the table's last
// body-close marker.
func InsertRow(content, rowMarkup string) (string, error) {
	at := strings.LastIndex(content, bodyClose)
	if at < 0 {
		return "", ErrNoTableBody
	}
	return content[:at] + rowMarkup + content[at:], nil
}

// RemoveRow removes the first exact textual occurrence of rowMarkup.
func RemoveRow(content, rowMarkup string) (string, error) {
	at := strings.Index(content, rowMarkup)
	if at < 0 {
		return "", ErrRowNotFound
	}
	return content[:at] + content[at+len(rowMarkup):], nil
}

// RemoveLastDataRow scans backward from the last row-close marker to its
// opening marker and splices the row out, returning the new content and
// the removed row. If the extracted row contains a header cell the table
// has no data rows left to remove and the content is returned unchanged
// with ErrHeaderRow.
func RemoveLastDataRow(content string) (newContent, removedRow string, err error) {
	closeAt := strings.LastIndex(content, rowClose)
	if closeAt < 0 {
		return "", "", ErrRowNotFound
	}
	openAt := strings.LastIndex(content[:closeAt], rowOpen)
	if openAt < 0 {
		return "", "", ErrRowNotFound
	}

	end := closeAt + len(rowClose)
	row := content[openAt:end]
	if strings.Contains(row, headerCell) {
		return "", "", ErrHeaderRow
	}
	return content[:openAt] + content[end:], row, nil
}
