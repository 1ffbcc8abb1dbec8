// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove placeholder and empty rows from the table",
	Long: `Clean strips known noise rows from the publications table: the test
placeholder row and rows whose every cell is empty. Without --yes it only
reports what would be removed. The page content is backed up before any
change is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		removed, err := o.Clean(ctx, !yes)
		if err != nil {
			return err
		}
		if removed > 0 && !yes {
			fmt.Println("re-run with --yes to apply")
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().Bool("yes", false, "apply the cleanup instead of previewing it")
	rootCmd.AddCommand(cleanCmd)
}
