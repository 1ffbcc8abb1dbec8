// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sync orchestrates the table operations end to end: every
// mutation fetches the live page, writes a local backup, applies the
// edit, and pushes the result in one pass. The remote page stays the
// source of truth, nothing is cached between operations.
package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/pdiddy/pubsync/internal/backup"
	"github.com/pdiddy/pubsync/internal/discover"
	"github.com/pdiddy/pubsync/internal/inspect"
	"github.com/pdiddy/pubsync/internal/ledger"
	"github.com/pdiddy/pubsync/internal/mapper"
	"github.com/pdiddy/pubsync/internal/tableedit"
	"github.com/pdiddy/pubsync/internal/wiki"
	"github.com/pdiddy/pubsync/pkg/types"
)

// pageExpand selects the page fields every operation needs.
const pageExpand = "body.storage,version"

// Orchestrator ties the wiki, backup store, and ledger together.
type Orchestrator struct {
	Pages   *wiki.Repository
	Backups *backup.Store
	// Ledger may be nil, cross-run deduplication then relies on the
	// identifiers already visible in the table.
	Ledger *ledger.Store
	PageID string
	Out    io.Writer
}

func (o *Orchestrator) fetchPage(ctx context.Context) (*wiki.Page, error) {
	page, err := o.Pages.Fetch(ctx, o.PageID, pageExpand)
	if err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", o.PageID, err)
	}
	return page, nil
}

// guard saves a backup of the current content before any mutation. A
// failed backup aborts the operation, the page is never touched without
// a restore point.
func (o *Orchestrator) guard(content, label string) error {
	ref, err := o.Backups.Save(content, label)
	if err != nil {
		return fmt.Errorf("backup before %s: %w", label, err)
	}
	fmt.Fprintf(o.Out, "backup saved: %s\n", ref.Name)
	return nil
}

func (o *Orchestrator) newRun(op string) string {
	runID := uuid.NewString()
	fmt.Fprintf(o.Out, "run %s: %s on page %s\n", runID, op, o.PageID)
	return runID
}

// Analyze fetches the page, saves a reference backup, and prints a
// table report.
func (o *Orchestrator) Analyze(ctx context.Context) (*inspect.TableReport, error) {
	page, err := o.fetchPage(ctx)
	if err != nil {
		return nil, err
	}
	if err := o.guard(page.Content, "analysis"); err != nil {
		return nil, err
	}

	report, err := inspect.Report(page.Content)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(o.Out, "page %q version %d\n", page.Title, page.Version)
	report.Write(o.Out)
	return report, nil
}

// Status prints a short summary of the page, the ledger, and the backups.
func (o *Orchestrator) Status(ctx context.Context) error {
	page, err := o.fetchPage(ctx)
	if err != nil {
		return err
	}
	report, err := inspect.Report(page.Content)
	if err != nil {
		return err
	}

	fmt.Fprintf(o.Out, "page %q version %d\n", page.Title, page.Version)
	fmt.Fprintf(o.Out, "rows: %d, next number: %d, noise rows: %d\n",
		report.DataRows, report.NextSequence(), report.NoiseRows)

	if o.Ledger != nil {
		entries, err := o.Ledger.List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(o.Out, "ledger: %d integrated publications\n", len(entries))
	}

	refs, err := o.Backups.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "backups: %d in %s\n", len(refs), o.Backups.Dir())
	return nil
}

// Clean strips noise rows from the table. With dryRun the page is left
// untouched and the would-be removals are only reported.
func (o *Orchestrator) Clean(ctx context.Context, dryRun bool) (int, error) {
	o.newRun("clean")
	page, err := o.fetchPage(ctx)
	if err != nil {
		return 0, err
	}

	cleaned, removed := tableedit.StripNoiseRows(page.Content, tableedit.DefaultNoisePatterns())
	if removed == 0 {
		fmt.Fprintln(o.Out, "table is already clean")
		return 0, nil
	}
	if dryRun {
		fmt.Fprintf(o.Out, "dry run: %d noise rows would be removed\n", removed)
		return removed, nil
	}

	if err := o.guard(page.Content, "pre_cleanup"); err != nil {
		return 0, err
	}
	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, cleaned, page.Version); err != nil {
		return 0, fmt.Errorf("writing cleaned page: %w", err)
	}
	if err := o.guard(cleaned, "post_cleanup"); err != nil {
		fmt.Fprintf(o.Out, "warning: %v\n", err)
	}
	fmt.Fprintf(o.Out, "removed %d noise rows\n", removed)
	return removed, nil
}

// AddRow appends one row to the table.
func (o *Orchestrator) AddRow(ctx context.Context, row types.Row) error {
	o.newRun("row add")
	page, err := o.fetchPage(ctx)
	if err != nil {
		return err
	}
	if err := o.guard(page.Content, "pre_row_add"); err != nil {
		return err
	}

	updated, err := tableedit.InsertRow(page.Content, mapper.RowMarkup(row))
	if err != nil {
		return err
	}
	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, updated, page.Version); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	fmt.Fprintf(o.Out, "row %d added\n", row.Sequence)
	return nil
}

// RemoveRow removes the first occurrence of the given row markup.
func (o *Orchestrator) RemoveRow(ctx context.Context, rowMarkup string) error {
	o.newRun("row remove")
	page, err := o.fetchPage(ctx)
	if err != nil {
		return err
	}
	if err := o.guard(page.Content, "pre_row_remove"); err != nil {
		return err
	}

	updated, err := tableedit.RemoveRow(page.Content, rowMarkup)
	if err != nil {
		return err
	}
	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, updated, page.Version); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	fmt.Fprintln(o.Out, "row removed")
	return nil
}

// RemoveLastRow removes the last data row and returns its markup so the
// caller can re-add it if the removal was a mistake.
func (o *Orchestrator) RemoveLastRow(ctx context.Context) (string, error) {
	o.newRun("row remove-last")
	page, err := o.fetchPage(ctx)
	if err != nil {
		return "", err
	}
	if err := o.guard(page.Content, "pre_row_remove"); err != nil {
		return "", err
	}

	updated, removedRow, err := tableedit.RemoveLastDataRow(page.Content)
	if err != nil {
		return "", err
	}
	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, updated, page.Version); err != nil {
		return "", fmt.Errorf("writing page: %w", err)
	}
	fmt.Fprintln(o.Out, "last data row removed")
	return removedRow, nil
}

// Restore replaces the page content with a saved backup. The current
// content is backed up first so a restore is itself reversible.
func (o *Orchestrator) Restore(ctx context.Context, backupName string) error {
	o.newRun("restore")
	content, err := o.Backups.Restore(backupName)
	if err != nil {
		return err
	}

	page, err := o.fetchPage(ctx)
	if err != nil {
		return err
	}
	if err := o.guard(page.Content, "pre_restore"); err != nil {
		return err
	}

	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, content, page.Version); err != nil {
		return fmt.Errorf("writing restored content: %w", err)
	}
	fmt.Fprintf(o.Out, "page restored from %s\n", backupName)
	return nil
}

// Discoverer runs a query plan and returns scored candidates.
// *discover.Pipeline is the production implementation.
type Discoverer interface {
	Run(ctx context.Context, plan []discover.PlannedQuery, maxPerQuery, minScore int, w io.Writer) (discover.RunResult, error)
}

// IntegrateOptions configures a discovery and integration run.
type IntegrateOptions struct {
	Pipeline    Discoverer
	Plan        []discover.PlannedQuery
	MaxPerQuery int
	MinScore    int
	// Location and Funding preset the respective cells of every new row.
	Location string
	Funding  string
	// DryRun previews the rows without writing the page or the ledger.
	DryRun bool
}

// IntegrateResult summarizes an integration run.
type IntegrateResult struct {
	RunID    string
	Rows     []types.Row
	Skipped  int
	Warnings int
}

// Integrate discovers publications, drops the ones the table or the
// ledger already has, and appends the rest as new rows.
func (o *Orchestrator) Integrate(ctx context.Context, opts IntegrateOptions) (*IntegrateResult, error) {
	runID := o.newRun("integrate")

	page, err := o.fetchPage(ctx)
	if err != nil {
		return nil, err
	}
	report, err := inspect.Report(page.Content)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(o.Out, "table has %d rows, next number %d\n", report.DataRows, report.NextSequence())

	run, err := opts.Pipeline.Run(ctx, opts.Plan, opts.MaxPerQuery, opts.MinScore, o.Out)
	if err != nil {
		return nil, err
	}

	res := &IntegrateResult{RunID: runID}
	seq := report.NextSequence()
	var pubs []types.Publication

	for _, pub := range run.Candidates {
		if report.Seen(pub.PMID) {
			res.Skipped++
			continue
		}
		if o.Ledger != nil {
			known, err := o.Ledger.Has(ctx, pub.PMID)
			if err != nil {
				return nil, err
			}
			if known {
				res.Skipped++
				continue
			}
		}

		row, warnings, err := mapper.Map(pub, seq, opts.Location, opts.Funding)
		if err != nil {
			fmt.Fprintf(o.Out, "warning: skipping PMID %s: %v\n", pub.PMID, err)
			continue
		}
		for _, warn := range warnings {
			fmt.Fprintf(o.Out, "warning: row %d: %s\n", seq, warn)
			res.Warnings++
		}
		res.Rows = append(res.Rows, row)
		pubs = append(pubs, pub)
		seq++
	}

	if len(res.Rows) == 0 {
		fmt.Fprintln(o.Out, "nothing new to integrate")
		return res, nil
	}

	if opts.DryRun {
		fmt.Fprintf(o.Out, "dry run: %d rows would be added (%d skipped as known)\n",
			len(res.Rows), res.Skipped)
		for _, row := range res.Rows {
			fmt.Fprintf(o.Out, "%s\n", mapper.RowMarkup(row))
		}
		return res, nil
	}

	if err := o.guard(page.Content, "pre_integration"); err != nil {
		return nil, err
	}

	content := page.Content
	for _, row := range res.Rows {
		content, err = tableedit.InsertRow(content, mapper.RowMarkup(row))
		if err != nil {
			return nil, err
		}
	}

	if _, err := o.Pages.Write(ctx, o.PageID, page.Title, content, page.Version); err != nil {
		return nil, fmt.Errorf("writing page: %w", err)
	}

	if o.Ledger != nil {
		for i, row := range res.Rows {
			entry := ledger.Entry{
				PMID:      pubs[i].PMID,
				RowNumber: row.Sequence,
				Title:     pubs[i].Title,
				DOI:       pubs[i].DOI,
				Score:     pubs[i].Score,
			}
			if err := o.Ledger.Add(ctx, entry); err != nil {
				fmt.Fprintf(o.Out, "warning: ledger update for PMID %s failed: %v\n", pubs[i].PMID, err)
			}
		}
	}

	if err := o.guard(content, "post_integration"); err != nil {
		fmt.Fprintf(o.Out, "warning: %v\n", err)
	}

	fmt.Fprintf(o.Out, "integrated %d publications (%d skipped as known)\n",
		len(res.Rows), res.Skipped)
	return res, nil
}
