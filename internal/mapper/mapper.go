// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapper converts discovered publications into table rows and
// renders rows as storage-format HTML.
package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// fundingBase is the offset the funding number grows from when the
// funding code is generated rather than given.
const fundingBase = 70000

// FundingAuto asks Map to derive the funding number from the row sequence.
const FundingAuto = "AUTO"

// LocationPending marks a row whose site has to be filled in by hand.
const LocationPending = "TBD"

var monthNumbers = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
	"January": "01", "February": "02", "March": "03", "April": "04",
	"June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

// ValidationError reports a publication that cannot become a row at all.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid publication: %s %s", e.Field, e.Reason)
}

// Map converts a publication into a table row with the given sequence
// number. Warnings flag fields the curator should review by hand, they
// never block the row.
func Map(pub types.Publication, seq int, location, fundingCode string) (types.Row, []string, error) {
	if pub.Title == "" {
		return types.Row{}, nil, &ValidationError{Field: "title", Reason: "is empty"}
	}
	if seq < 1 {
		return types.Row{}, nil, &ValidationError{Field: "sequence", Reason: "must be positive"}
	}

	var warnings []string

	if location == "" {
		location = LocationPending
	}
	if location == LocationPending {
		warnings = append(warnings, "location must be set manually")
	}

	period := FormatPeriod(pub.Year, pub.Month)
	if strings.Contains(period, "?") {
		warnings = append(warnings, "incomplete publication date")
	}

	people := strings.Join(pub.Authors, ", ")
	if people == "" {
		people = "N/A"
		warnings = append(warnings, "no authors found")
	}

	row := types.Row{
		Sequence: seq,
		Period:   period,
		Location: location,
		People:   people,
		Funding:  formatFunding(fundingCode, seq),
		Citation: FormatCitation(pub),
	}
	return row, warnings, nil
}

// FormatPeriod renders year and month as YYYY/MM. Unknown parts become
// question marks, a missing year hides the month too.
func FormatPeriod(year, month string) string {
	if year == "" || year == "N/A" {
		return "????/??"
	}
	if month == "" || month == "N/A" {
		return year + "/??"
	}
	if num, ok := monthNumbers[month]; ok {
		return year + "/" + num
	}
	if n, err := strconv.Atoi(month); err == nil && n >= 1 && n <= 12 {
		return fmt.Sprintf("%s/%02d", year, n)
	}
	return year + "/??"
}

// FormatCitation builds the citation cell: title, then DOI, then the
// PubMed link. The angle brackets stay entity-encoded because the cell
// lands in storage format as-is.
func FormatCitation(pub types.Publication) string {
	cite := pub.Title
	if pub.DOI != "" {
		cite += ". DOI: " + pub.DOI
	}
	if pub.PMID != "" {
		cite += fmt.Sprintf(" &lt;https://pubmed.ncbi.nlm.nih.gov/%s/&gt;", pub.PMID)
	}
	return cite
}

func formatFunding(code string, seq int) string {
	if code == "" || code == FundingAuto {
		return fmt.Sprintf("JA %d", fundingBase+seq)
	}
	return "JA " + code
}

// RowMarkup renders a row as a storage-format table row. Every cell is
// escaped except the citation, which carries pre-encoded entities.
func RowMarkup(row types.Row) string {
	var b strings.Builder
	b.WriteString("<tr>\n")
	fmt.Fprintf(&b, "<td>%s</td>\n", escapeCell(strconv.Itoa(row.Sequence)))
	fmt.Fprintf(&b, "<td>%s</td>\n", escapeCell(row.Period))
	fmt.Fprintf(&b, "<td>%s</td>\n", escapeCell(row.Location))
	fmt.Fprintf(&b, "<td>%s</td>\n", escapeCell(row.People))
	fmt.Fprintf(&b, "<td>%s</td>\n", escapeCell(row.Funding))
	fmt.Fprintf(&b, "<td>%s</td>\n", row.Citation)
	b.WriteString("</tr>")
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
