package main

import (
	"github.com/sidhant-sriv/catalog-api/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, conn, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close(conn)

		log.WithField("driver", cfg.Database.Driver).Info("schema migrated")
		return nil
	},
}
