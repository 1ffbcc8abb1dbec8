// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildQueryPlanShape(t *testing.T) {
	plan := BuildQueryPlan()
	if len(plan) != 16 {
		t.Fatalf("expected 16 planned queries, got %d", len(plan))
	}

	counts := map[string]int{}
	for _, q := range plan {
		counts[q.Category]++
		if q.Query == "" {
			t.Error("planned query with empty query string")
		}
		if q.Priority != PriorityHigh && q.Priority != PriorityMedium {
			t.Errorf("unexpected priority %q", q.Priority)
		}
	}
	want := map[string]int{
		CategoryKeyword:     6,
		CategoryAuthor:      5,
		CategoryInstitution: 3,
		CategoryTemporal:    2,
	}
	for cat, n := range want {
		if counts[cat] != n {
			t.Errorf("category %s: got %d queries, want %d", cat, counts[cat], n)
		}
	}
}

func TestBuildQueryPlanAuthorSyntax(t *testing.T) {
	plan := FilterByPriority(BuildQueryPlan(), PriorityMedium)
	var authorQueries int
	for _, q := range plan {
		if q.Category != CategoryAuthor {
			continue
		}
		authorQueries++
		if !strings.Contains(q.Query, `[Author]`) {
			t.Errorf("author query missing field tag: %s", q.Query)
		}
	}
	if authorQueries != 5 {
		t.Errorf("expected 5 author queries, got %d", authorQueries)
	}
}

func TestFilterByPriority(t *testing.T) {
	plan := BuildQueryPlan()
	high := FilterByPriority(plan, PriorityHigh)
	medium := FilterByPriority(plan, PriorityMedium)
	if len(high)+len(medium) != len(plan) {
		t.Errorf("priorities do not partition the plan: %d + %d != %d",
			len(high), len(medium), len(plan))
	}
	for _, q := range high {
		if q.Priority != PriorityHigh {
			t.Errorf("query %q leaked into high priority", q.Query)
		}
	}
}

func TestPlanFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	plan := BuildQueryPlan()[:4]

	if err := WritePlanFile(path, plan); err != nil {
		t.Fatalf("WritePlanFile failed: %v", err)
	}
	loaded, err := ReadPlanFile(path)
	if err != nil {
		t.Fatalf("ReadPlanFile failed: %v", err)
	}
	if len(loaded) != len(plan) {
		t.Fatalf("expected %d queries, got %d", len(plan), len(loaded))
	}
	for i := range plan {
		if loaded[i] != plan[i] {
			t.Errorf("query %d changed in round trip: %+v != %+v", i, loaded[i], plan[i])
		}
	}
}

func TestReadPlanFileRejectsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("queries: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPlanFile(path); err == nil {
		t.Fatal("expected error for plan without queries")
	}
}

func TestReadPlanFileRejectsBlankQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := "queries:\n  - query: \"\"\n    category: keyword\n    priority: high\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadPlanFile(path); err == nil {
		t.Fatal("expected error for blank query entry")
	}
}
