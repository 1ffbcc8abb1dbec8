// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Query priorities, high priority queries run first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Query categories.
const (
	CategoryKeyword     = "keyword"
	CategoryAuthor      = "author"
	CategoryInstitution = "institution"
	CategoryTemporal    = "temporal"
)

// PlannedQuery is one PubMed search in the discovery plan.
type PlannedQuery struct {
	Query    string `yaml:"query"`
	Category string `yaml:"category"`
	Priority string `yaml:"priority"`
}

// knownAuthors lists researchers whose publications belong in the table,
// in last-name-plus-initial form as PubMed renders them.
var knownAuthors = []string{
	"Surov A", "Pech M", "Haag F", "Teichräber U",
	"Thormann M", "Kardas H", "Meyer HJ", "Güttler F",
	"Lassen-Schmidt B", "Krämer M", "Renz D",
}

// BuildQueryPlan returns the default prioritized search plan: keyword
// combinations first, then author and affiliation probes, then date
// range sweeps.
func BuildQueryPlan() []PlannedQuery {
	var plan []PlannedQuery

	keywordCombos := []string{
		"(COVID-19) AND (radiology) AND (chest CT)",
		"(SARS-CoV-2) AND (imaging) AND (lung)",
		"(coronavirus) AND (chest X-ray)",
		"(COVID-19) AND (pneumonia) AND (CT)",
		"RACOON study",
		"(COVID-19) AND (artificial intelligence) AND (radiology)",
	}
	for _, q := range keywordCombos {
		plan = append(plan, PlannedQuery{Query: q, Category: CategoryKeyword, Priority: PriorityHigh})
	}

	for _, author := range knownAuthors[:5] {
		plan = append(plan, PlannedQuery{
			Query:    fmt.Sprintf(`("%s"[Author]) AND (COVID-19 OR radiology)`, author),
			Category: CategoryAuthor,
			Priority: PriorityMedium,
		})
	}

	affiliations := []string{
		`("Otto-von-Guericke University"[Affiliation]) AND (COVID-19)`,
		`("University Hospital Magdeburg"[Affiliation]) AND (radiology)`,
		`("Friedrich Schiller University"[Affiliation]) AND (imaging)`,
	}
	for _, q := range affiliations {
		plan = append(plan, PlannedQuery{Query: q, Category: CategoryInstitution, Priority: PriorityMedium})
	}

	temporal := []string{
		`(COVID-19) AND (radiology) AND ("2020"[Date - Publication] : "2025"[Date - Publication])`,
		`(chest CT) AND (COVID-19) AND ("2020/03"[Date - Publication] : "2025/12"[Date - Publication])`,
	}
	for _, q := range temporal {
		plan = append(plan, PlannedQuery{Query: q, Category: CategoryTemporal, Priority: PriorityHigh})
	}

	return plan
}

// FilterByPriority keeps only queries with the given priority, in plan order.
func FilterByPriority(plan []PlannedQuery, priority string) []PlannedQuery {
	var out []PlannedQuery
	for _, q := range plan {
		if q.Priority == priority {
			out = append(out, q)
		}
	}
	return out
}

// planFile is the on-disk representation of a query plan, so a curated
// plan can replace the built-in one without recompiling.
type planFile struct {
	Queries []PlannedQuery `yaml:"queries"`
}

// WritePlanFile saves a query plan to a YAML file.
func WritePlanFile(path string, plan []PlannedQuery) error {
	data, err := yaml.Marshal(&planFile{Queries: plan})
	if err != nil {
		return fmt.Errorf("marshaling query plan: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadPlanFile loads a query plan from a YAML file.
func ReadPlanFile(path string) ([]PlannedQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query plan: %w", err)
	}
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing query plan: %w", err)
	}
	if len(pf.Queries) == 0 {
		return nil, fmt.Errorf("query plan %s contains no queries", path)
	}
	for i, q := range pf.Queries {
		if q.Query == "" {
			return nil, fmt.Errorf("query plan %s: entry %d has an empty query", path, i+1)
		}
	}
	return pf.Queries, nil
}
