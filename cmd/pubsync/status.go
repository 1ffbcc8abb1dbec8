// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show page, ledger, and backup state at a glance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return o.Status(ctx)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
