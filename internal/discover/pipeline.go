// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Pipeline runs the query plan against PubMed sequentially, deduplicates
// across queries, scores, and filters. Queries run one at a time with a
// delay between them, the NCBI terms of use rule out fanning out.
type Pipeline struct {
	Client *Client
	// QueryDelay is the pause between consecutive searches.
	QueryDelay time.Duration
}

// NewPipeline builds a pipeline from the discovery configuration.
// Warnings receives per-article parse problems.
func NewPipeline(cfg types.DiscoveryConfig, warnings io.Writer) *Pipeline {
	return &Pipeline{
		Client: &Client{
			HTTP:     &http.Client{Timeout: cfg.Timeout},
			Tool:     cfg.Tool,
			Email:    cfg.Email,
			APIKey:   cfg.APIKey,
			Warnings: warnings,
		},
		QueryDelay: cfg.QueryDelay,
	}
}

// RunResult holds the surviving candidates and pipeline statistics.
type RunResult struct {
	Candidates []types.Publication
	// QueriesRun counts searches that completed, failed ones included.
	QueriesRun    int
	QueryErrors   []string
	DupsRemoved   int
	BelowMinScore int
}

// Run executes the plan. Each candidate carries the query that first
// found it and its relevance score. Candidates come back sorted by
// score, highest first. A failing query is reported on w and skipped,
// only a canceled context aborts the run.
func (p *Pipeline) Run(ctx context.Context, plan []PlannedQuery, maxPerQuery, minScore int, w io.Writer) (RunResult, error) {
	if len(plan) == 0 {
		return RunResult{}, fmt.Errorf("empty query plan")
	}

	var res RunResult
	seen := make(map[string]bool)

	for i, pq := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i > 0 && p.QueryDelay > 0 {
			time.Sleep(p.QueryDelay)
		}

		fmt.Fprintf(w, "query %d/%d [%s]: %s\n", i+1, len(plan), pq.Category, truncateQuery(pq.Query))
		res.QueriesRun++

		pmids, err := p.Client.Search(ctx, pq.Query, maxPerQuery)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", pq.Category, err)
			res.QueryErrors = append(res.QueryErrors, msg)
			fmt.Fprintf(w, "warning: search failed: %v\n", err)
			continue
		}
		if len(pmids) == 0 {
			continue
		}

		var fresh []string
		for _, pmid := range pmids {
			if seen[pmid] {
				res.DupsRemoved++
				continue
			}
			seen[pmid] = true
			fresh = append(fresh, pmid)
		}
		if len(fresh) == 0 {
			continue
		}

		pubs, err := p.Client.FetchDetails(ctx, fresh)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", pq.Category, err)
			res.QueryErrors = append(res.QueryErrors, msg)
			fmt.Fprintf(w, "warning: fetching details failed: %v\n", err)
			continue
		}

		for _, pub := range pubs {
			pub.Query = pq.Query
			pub.Score = Score(pub)
			if pub.Score < minScore {
				res.BelowMinScore++
				continue
			}
			res.Candidates = append(res.Candidates, pub)
		}
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Score > res.Candidates[j].Score
	})

	fmt.Fprintf(w, "discovery done: %d candidates, %d duplicates, %d below score threshold\n",
		len(res.Candidates), res.DupsRemoved, res.BelowMinScore)
	return res, nil
}

func truncateQuery(q string) string {
	if len(q) > 70 {
		return q[:67] + "..."
	}
	return q
}
