// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndHas(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	has, err := s.Has(ctx, "32621243")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if has {
		t.Fatal("empty ledger claims to know a PMID")
	}

	err = s.Add(ctx, Entry{
		PMID:      "32621243",
		RowNumber: 63,
		Title:     "Chest CT in COVID-19",
		DOI:       "10.1007/s00330-020-07033-y",
		Score:     81,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	has, err = s.Has(ctx, "32621243")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Fatal("ledger lost a recorded PMID")
	}
}

func TestAddDuplicateFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Add(ctx, Entry{PMID: "1", RowNumber: 1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Add(ctx, Entry{PMID: "1", RowNumber: 2}); err == nil {
		t.Fatal("expected error for duplicate PMID")
	}
}

func TestAddRejectsEmptyPMID(t *testing.T) {
	s := openTestStore(t)
	if err := s.Add(context.Background(), Entry{RowNumber: 1}); err == nil {
		t.Fatal("expected error for entry without PMID")
	}
}

func TestKnown(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, pmid := range []string{"100", "200"} {
		if err := s.Add(ctx, Entry{PMID: pmid, RowNumber: 1}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	known, err := s.Known(ctx, []string{"100", "200", "300"})
	if err != nil {
		t.Fatalf("Known failed: %v", err)
	}
	if len(known) != 2 || !known["100"] || !known["200"] || known["300"] {
		t.Errorf("unexpected known set: %v", known)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, pmid := range []string{"1", "2", "3"} {
		err := s.Add(ctx, Entry{
			PMID:         pmid,
			RowNumber:    i + 1,
			IntegratedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].PMID != "3" || entries[2].PMID != "1" {
		t.Errorf("entries not newest first: %v", entries)
	}
	if entries[0].IntegratedAt.IsZero() {
		t.Error("IntegratedAt not round-tripped")
	}
}

func TestStoreReopens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := s.Add(ctx, Entry{PMID: "555", RowNumber: 7}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = NewStore(dir)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer s.Close()

	has, err := s.Has(ctx, "555")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if !has {
		t.Fatal("ledger did not survive reopen")
	}
}
