// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the publications table and save a reference backup",
	Long: `Analyze fetches the publications page, saves a local backup of its
current content, and prints a report: column layout, row count, the next
free row number, identifiers already cited, and any noise rows that the
clean command would remove.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		_, err = o.Analyze(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
