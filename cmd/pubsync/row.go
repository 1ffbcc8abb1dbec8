// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubsync/pkg/types"
)

var rowCmd = &cobra.Command{
	Use:   "row",
	Short: "Add or remove individual table rows",
}

var rowAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a row to the publications table",
	Long: `Add appends one row with the given cell values. The citation cell is
inserted verbatim, so entity-encoded links survive the round trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		number, _ := cmd.Flags().GetInt("number")
		period, _ := cmd.Flags().GetString("period")
		location, _ := cmd.Flags().GetString("location")
		people, _ := cmd.Flags().GetString("people")
		funding, _ := cmd.Flags().GetString("funding")
		citation, _ := cmd.Flags().GetString("citation")

		if number < 1 {
			return fmt.Errorf("--number must be a positive row number")
		}
		if citation == "" {
			return fmt.Errorf("--citation must not be empty")
		}

		row := types.Row{
			Sequence: number,
			Period:   period,
			Location: location,
			People:   people,
			Funding:  funding,
			Citation: citation,
		}

		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return o.AddRow(ctx, row)
	},
}

var rowRemoveCmd = &cobra.Command{
	Use:   "remove [markup-file]",
	Short: "Remove the first row matching the markup in a file",
	Long: `Remove deletes the first table row whose markup exactly matches the
contents of the given file. The row remove-last command prints removed rows
in this format, so a mistaken removal can be undone by feeding the output
back in through row add.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markup, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading row markup: %w", err)
		}

		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return o.RemoveRow(ctx, string(markup))
	},
}

var rowRemoveLastCmd = &cobra.Command{
	Use:   "remove-last",
	Short: "Remove the last data row and print its markup",
	Long: `Remove-last deletes the bottom data row of the table. Header rows are
never touched. The removed row's markup is printed to stdout so it can be
restored with row add if needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		removed, err := o.RemoveLastRow(ctx)
		if err != nil {
			return err
		}
		fmt.Println(removed)
		return nil
	},
}

func init() {
	rowAddCmd.Flags().Int("number", 0, "row number (Nr. column)")
	rowAddCmd.Flags().String("period", "????/??", "publication period as YYYY/MM")
	rowAddCmd.Flags().String("location", "TBD", "site (Standort column)")
	rowAddCmd.Flags().String("people", "", "authors (Personen column)")
	rowAddCmd.Flags().String("funding", "", "funding note (Förderhinweis column)")
	rowAddCmd.Flags().String("citation", "", "citation cell content (PubMed DOI column)")

	rowCmd.AddCommand(rowAddCmd)
	rowCmd.AddCommand(rowRemoveCmd)
	rowCmd.AddCommand(rowRemoveLastCmd)
	rootCmd.AddCommand(rowCmd)
}
