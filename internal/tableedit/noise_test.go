package tableedit

import (
	"strings"
	"testing"
)

func TestStripNoiseRowsPlaceholder(t *testing.T) {
	content, _ := InsertRow(sampleTable, placeholderRow)

	got, removed := StripNoiseRows(content, DefaultNoisePatterns())
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if got != sampleTable {
		t.Error("stripping the placeholder row should restore the original table")
	}
}

func TestStripNoiseRowsMacroIDVariant(t *testing.T) {
	withID := strings.Replace(placeholderRow,
		`ac:schema-version="1"`,
		`ac:schema-version="1" ac:macro-id="2f2634ba-9170-4516-b9c5-027a1e38996e"`, 1)
	content, _ := InsertRow(sampleTable, withID)

	got, removed := StripNoiseRows(content, DefaultNoisePatterns())
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if strings.Contains(got, "TEST") {
		t.Error("placeholder row with macro id should be stripped")
	}
}

func TestStripNoiseRowsEmptyRows(t *testing.T) {
	empty := `<tr><td></td><td> </td><td><p></p></td><td>&nbsp;</td><td><p>&nbsp;</p></td><td></td></tr>`
	content, _ := InsertRow(sampleTable, empty)

	got, removed := StripNoiseRows(content, DefaultNoisePatterns())
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if strings.Contains(got, empty) {
		t.Error("all-empty row should be stripped")
	}
	if !strings.Contains(got, "First paper") || !strings.Contains(got, "Second paper") {
		t.Error("data rows must survive noise stripping")
	}
}

func TestStripNoiseRowsIdempotent(t *testing.T) {
	content, _ := InsertRow(sampleTable, placeholderRow)
	content, _ = InsertRow(content, `<tr><td></td><td></td><td></td><td></td><td></td><td></td></tr>`)

	first, removedFirst := StripNoiseRows(content, DefaultNoisePatterns())
	if removedFirst != 2 {
		t.Fatalf("first pass removed = %d, want 2", removedFirst)
	}

	second, removedSecond := StripNoiseRows(first, DefaultNoisePatterns())
	if removedSecond != 0 {
		t.Errorf("second pass removed = %d, want 0", removedSecond)
	}
	if second != first {
		t.Error("second pass must not change already-clean content")
	}
}

func TestStripNoiseRowsCleanContentUntouched(t *testing.T) {
	got, removed := StripNoiseRows(sampleTable, DefaultNoisePatterns())
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	if got != sampleTable {
		t.Error("clean content must pass through byte-identical")
	}
}
