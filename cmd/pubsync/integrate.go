// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/internal/discover"
	"github.com/pdiddy/pubsync/internal/mapper"
	"github.com/pdiddy/pubsync/internal/sync"
)

var integrateCmd = &cobra.Command{
	Use:   "integrate",
	Short: "Discover publications on PubMed and append them to the table",
	Long: `Integrate runs the query plan against PubMed, scores the results for
relevance, drops publications the table or the ledger already knows, and
appends the rest as new rows. With --dry-run the rows are only previewed.

The default query plan ships built in. A curated plan can be supplied as a
YAML file via --queries; write the built-in plan with the plan command to
get a starting point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		minScore, _ := cmd.Flags().GetInt("min-score")
		maxPerQuery, _ := cmd.Flags().GetInt("max-per-query")
		planFile, _ := cmd.Flags().GetString("queries")
		priority, _ := cmd.Flags().GetString("priority")
		location, _ := cmd.Flags().GetString("location")
		funding, _ := cmd.Flags().GetString("funding")

		cfg := pipelineConfig(cmd).Discovery
		if minScore < 0 {
			minScore = cfg.MinScore
		}
		if maxPerQuery <= 0 {
			maxPerQuery = cfg.MaxPerQuery
		}

		plan := discover.BuildQueryPlan()
		if planFile != "" {
			var err error
			plan, err = discover.ReadPlanFile(planFile)
			if err != nil {
				return err
			}
		}
		if priority != "" {
			plan = discover.FilterByPriority(plan, priority)
			if len(plan) == 0 {
				return fmt.Errorf("no queries with priority %q in the plan", priority)
			}
		}

		pipeline := discover.NewPipeline(cfg, os.Stderr)

		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		_, err = o.Integrate(ctx, sync.IntegrateOptions{
			Pipeline:    pipeline,
			Plan:        plan,
			MaxPerQuery: maxPerQuery,
			MinScore:    minScore,
			Location:    location,
			Funding:     funding,
			DryRun:      dryRun,
		})
		return err
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Write the built-in query plan to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if err := discover.WritePlanFile(out, discover.BuildQueryPlan()); err != nil {
			return err
		}
		fmt.Printf("query plan written to %s\n", out)
		return nil
	},
}

func init() {
	integrateCmd.Flags().Bool("dry-run", false, "preview the new rows without writing")
	integrateCmd.Flags().Int("min-score", -1, "minimum relevance score (0-100)")
	integrateCmd.Flags().Int("max-per-query", 0, "maximum results per PubMed query")
	integrateCmd.Flags().String("queries", "", "YAML file with a curated query plan")
	integrateCmd.Flags().String("priority", "", "run only queries with this priority (high, medium)")
	integrateCmd.Flags().String("location", mapper.LocationPending, "site for new rows")
	integrateCmd.Flags().String("funding", mapper.FundingAuto, "funding code for new rows, AUTO derives it from the row number")

	planCmd.Flags().String("out", "queries.yaml", "output file for the query plan")

	rootCmd.AddCommand(integrateCmd)
	rootCmd.AddCommand(planCmd)
}
