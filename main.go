package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/config"
	"github.com/sidhant-sriv/catalog-api/db"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg is loaded before any subcommand runs.
	cfg config.Config

	log = logrus.StandardLogger()
)

var rootCmd = &cobra.Command{
	Use:           "catalog",
	Short:         "Item catalog with third-party login",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return configureLogging(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml or env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(auditCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("catalog exited")
		os.Exit(1)
	}
}

func configureLogging(c config.Config) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	switch strings.ToLower(c.LogFormat) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// openStore connects and migrates the database. The caller closes the
// returned handle.
func openStore() (*catalog.Store, *gorm.DB, error) {
	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(conn); err != nil {
		_ = db.Close(conn)
		return nil, nil, err
	}

	store := catalog.New(conn,
		catalog.WithLogger(log.WithField("component", "catalog")),
		catalog.WithMaxAttempts(cfg.MaxAttempts),
	)
	return store, conn, nil
}
