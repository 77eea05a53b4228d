package main

import (
	"fmt"

	"github.com/sidhant-sriv/catalog-api/db"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo kitchen and bathroom items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, conn, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		result, err := db.Seed(cmd.Context(), store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded as user %d: %d created, %d skipped\n",
			result.UserID, result.Created, result.Skipped)
		return nil
	},
}
