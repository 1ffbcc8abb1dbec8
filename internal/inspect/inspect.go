// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect builds a read-only report over the publications table:
// header layout, row counts, the highest sequence number, identifiers
// already present, and a noise-row census. The editor never runs through
// this package; inspection may re-serialize, editing may not.
package inspect

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/pubsync/internal/tableedit"
)

// sampleLimit caps how many data rows the report keeps verbatim.
const sampleLimit = 5

var (
	pmidLink = regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`)
	doiRef   = regexp.MustCompile(`DOI:\s*(10\.\S+?)(?:\s|<|&|$)`)
	wsRun    = regexp.MustCompile(`\s+`)
)

// TableReport summarizes the current state of the table.
type TableReport struct {
	// Headers are the header-cell texts in column order.
	Headers []string

	// DataRows counts rows without header cells.
	DataRows int

	// MaxSequence is the highest numeric first-cell value seen, 0 when
	// the table has no numbered rows.
	MaxSequence int

	// NoiseRows counts rows the default noise patterns would strip.
	NoiseRows int

	// SeenPMIDs and SeenDOIs are identifiers already present in citation
	// cells, used for cross-run deduplication.
	SeenPMIDs []string
	SeenDOIs  []string

	// Samples holds the cell texts of the first few data rows.
	Samples [][]string
}

// NextSequence returns the sequence number the next inserted row takes.
func (r *TableReport) NextSequence() int { return r.MaxSequence + 1 }

// Seen reports whether the table already cites the given PMID.
func (r *TableReport) Seen(pmid string) bool {
	for _, id := range r.SeenPMIDs {
		if id == pmid {
			return true
		}
	}
	return false
}

// Report parses the page content and summarizes its table.
func Report(content string) (*TableReport, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing page content: %w", err)
	}

	rep := &TableReport{}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("th").Length() > 0 {
			if len(rep.Headers) == 0 {
				row.Find("th").Each(func(_ int, th *goquery.Selection) {
					rep.Headers = append(rep.Headers, cleanText(th.Text()))
				})
			}
			return
		}

		cells := row.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return cleanText(td.Text())
		})
		if len(cells) == 0 {
			return
		}
		rep.DataRows++

		if n, err := strconv.Atoi(cells[0]); err == nil && n > rep.MaxSequence {
			rep.MaxSequence = n
		}
		if len(rep.Samples) < sampleLimit {
			rep.Samples = append(rep.Samples, cells)
		}

		rowText := strings.Join(cells, " ")
		for _, m := range pmidLink.FindAllStringSubmatch(rowText, -1) {
			rep.SeenPMIDs = appendUnique(rep.SeenPMIDs, m[1])
		}
		for _, m := range doiRef.FindAllStringSubmatch(rowText, -1) {
			rep.SeenDOIs = appendUnique(rep.SeenDOIs, strings.TrimRight(m[1], ".,;"))
		}
	})

	_, rep.NoiseRows = tableedit.StripNoiseRows(content, tableedit.DefaultNoisePatterns())

	return rep, nil
}

// Write renders the report as a human-readable summary.
func (r *TableReport) Write(w io.Writer) {
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(r.Headers, " | "))
	fmt.Fprintf(w, "Data rows: %d (highest number %d, next %d)\n", r.DataRows, r.MaxSequence, r.NextSequence())
	fmt.Fprintf(w, "Cited PMIDs: %d, DOIs: %d\n", len(r.SeenPMIDs), len(r.SeenDOIs))
	if r.NoiseRows > 0 {
		fmt.Fprintf(w, "Noise rows needing cleanup: %d\n", r.NoiseRows)
	} else {
		fmt.Fprintln(w, "Table is clean.")
	}
	for i, cells := range r.Samples {
		fmt.Fprintf(w, "  row %d: %s\n", i+1, strings.Join(truncateAll(cells, 60), " | "))
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(wsRun.ReplaceAllString(s, " "))
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

func truncateAll(cells []string, max int) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if len(c) > max {
			c = c[:max-3] + "..."
		}
		out[i] = c
	}
	return out
}
