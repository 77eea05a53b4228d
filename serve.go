package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/db"
	"github.com/sidhant-sriv/catalog-api/identity"
	"github.com/sidhant-sriv/catalog-api/routes"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	store, conn, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close(conn)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.AuditSchedule != "" {
		scheduler := cron.New(cron.WithSeconds())
		if _, err := scheduler.AddFunc(cfg.AuditSchedule, func() { runAudit(ctx, store) }); err != nil {
			return err
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
		log.WithField("schedule", cfg.AuditSchedule).Info("audit scheduled")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	providers := identity.NewRegistry(
		identity.NewGoogle(cfg.GoogleAPIURL),
		identity.NewFacebook(cfg.FacebookURL),
	)
	router := routes.NewRouter(store, providers, []byte(cfg.JWTSecret), log.WithField("component", "http"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runAudit is the scheduled job. It only reports; pruning is left to the
// audit command.
func runAudit(ctx context.Context, store *catalog.Store) {
	report, err := store.Audit(ctx)
	if err != nil {
		log.WithError(err).Error("scheduled audit failed")
		return
	}
	for _, c := range report.OrphanCategories {
		log.WithFields(logrus.Fields{
			"category_id": c.ID,
			"category":    c.Name,
		}).Warn("category has no items")
	}
	for _, name := range report.DuplicateItemNames {
		log.WithField("item", name).Warn("item name is not unique")
	}
	if report.Healthy() {
		log.WithFields(logrus.Fields{
			"categories": report.Categories,
			"items":      report.Items,
		}).Debug("audit passed")
	}
}
