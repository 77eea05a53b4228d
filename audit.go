package main

import (
	"errors"
	"fmt"

	"github.com/sidhant-sriv/catalog-api/db"
	"github.com/spf13/cobra"
)

var errUnhealthy = errors.New("catalog invariants violated")

var pruneOrphans bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check that every category has items and item names are unique",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, conn, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		report, err := store.Audit(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "users: %d\ncategories: %d\nitems: %d\n", report.Users, report.Categories, report.Items)
		for _, c := range report.OrphanCategories {
			fmt.Fprintf(out, "orphan category: %d %q\n", c.ID, c.Name)
		}
		for _, name := range report.DuplicateItemNames {
			fmt.Fprintf(out, "duplicate item name: %q\n", name)
		}

		if pruneOrphans {
			removed, err := store.PruneOrphanCategories(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "pruned %d orphan categories\n", removed)
			return nil
		}
		if !report.Healthy() {
			return errUnhealthy
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().BoolVar(&pruneOrphans, "prune", false, "delete categories that have no items")
}
