// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List local page backups or restore one",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved page backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := backupStore(cmd)
		refs, err := store.List()
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Printf("no backups in %s\n", store.Dir())
			return nil
		}
		for _, ref := range refs {
			fmt.Printf("%-60s  %s  %8d bytes\n",
				ref.Name, ref.CreatedAt.Format("2006-01-02 15:04:05"), ref.Size)
		}
		return nil
	},
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Replace the page content with a saved backup",
	Long: `Restore overwrites the live page with the named backup file. The
current page content is backed up first, so the restore can itself be
undone. Without --yes it only reports what would be restored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			content, err := backupStore(cmd).Restore(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("dry run: would replace the page with %s (%d bytes)\n", args[0], len(content))
			fmt.Println("re-run with --yes to apply")
			return nil
		}

		ctx := context.Background()
		o, cleanup, err := newOrchestrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		return o.Restore(ctx, args[0])
	},
}

func init() {
	backupsRestoreCmd.Flags().Bool("yes", false, "apply the restore instead of previewing it")
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
	rootCmd.AddCommand(backupsCmd)
}
