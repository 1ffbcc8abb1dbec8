// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspect

import (
	"strings"
	"testing"
)

const reportFixture = `<table class="wrapped"><tbody>
<tr><th><p>Nr.</p></th><th><p>Jahr</p></th><th><p>Monat</p></th><th><p>Standort</p></th><th><p>Personen</p></th><th><p>F&ouml;rderhinweis</p></th><th><p>PubMed DOI</p></th></tr>
<tr><td><p>1</p></td><td><p>2020</p></td><td><p>07</p></td><td><p>Leipzig</p></td><td><p>Surov A</p></td><td><p>JA 70001</p></td><td><p>First paper. DOI: 10.1007/s00330-020-07033-y &lt;https://pubmed.ncbi.nlm.nih.gov/32621243/&gt;</p></td></tr>
<tr><td><p>3</p></td><td><p>2021</p></td><td><p>??</p></td><td><p>Magdeburg</p></td><td><p>Meyer HJ</p></td><td><p>JA 70002</p></td><td><p>Second paper &lt;https://pubmed.ncbi.nlm.nih.gov/33296871/&gt;</p></td></tr>
</tbody></table>`

func TestReportHeadersAndCounts(t *testing.T) {
	rep, err := Report(reportFixture)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(rep.Headers) != 7 {
		t.Fatalf("expected 7 headers, got %d: %v", len(rep.Headers), rep.Headers)
	}
	if rep.Headers[0] != "Nr." || rep.Headers[6] != "PubMed DOI" {
		t.Errorf("unexpected headers: %v", rep.Headers)
	}
	if rep.DataRows != 2 {
		t.Errorf("expected 2 data rows, got %d", rep.DataRows)
	}
}

func TestReportSequenceSkipsGaps(t *testing.T) {
	rep, err := Report(reportFixture)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if rep.MaxSequence != 3 {
		t.Errorf("expected max sequence 3, got %d", rep.MaxSequence)
	}
	if rep.NextSequence() != 4 {
		t.Errorf("expected next sequence 4, got %d", rep.NextSequence())
	}
}

func TestReportSeenIdentifiers(t *testing.T) {
	rep, err := Report(reportFixture)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(rep.SeenPMIDs) != 2 {
		t.Fatalf("expected 2 PMIDs, got %v", rep.SeenPMIDs)
	}
	if !rep.Seen("32621243") || !rep.Seen("33296871") {
		t.Errorf("missing expected PMIDs: %v", rep.SeenPMIDs)
	}
	if rep.Seen("99999999") {
		t.Error("Seen matched a PMID the table does not cite")
	}
	if len(rep.SeenDOIs) != 1 || rep.SeenDOIs[0] != "10.1007/s00330-020-07033-y" {
		t.Errorf("unexpected DOIs: %v", rep.SeenDOIs)
	}
}

func TestReportCountsNoiseRows(t *testing.T) {
	noisy := strings.Replace(reportFixture, "</tbody>",
		`<tr><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td><td><p>&nbsp;</p></td></tr></tbody>`, 1)
	rep, err := Report(noisy)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if rep.NoiseRows != 1 {
		t.Errorf("expected 1 noise row, got %d", rep.NoiseRows)
	}
	clean, err := Report(reportFixture)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if clean.NoiseRows != 0 {
		t.Errorf("expected no noise rows, got %d", clean.NoiseRows)
	}
}

func TestReportEmptyContent(t *testing.T) {
	rep, err := Report("<p>No table on this page.</p>")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if rep.DataRows != 0 || rep.MaxSequence != 0 || rep.NextSequence() != 1 {
		t.Errorf("unexpected report for pageless content: %+v", rep)
	}
}

func TestReportSamples(t *testing.T) {
	rep, err := Report(reportFixture)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(rep.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(rep.Samples))
	}
	if rep.Samples[0][3] != "Leipzig" {
		t.Errorf("unexpected sample cell: %q", rep.Samples[0][3])
	}
}
