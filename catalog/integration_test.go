//go:build integration
// +build integration

package catalog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/config"
	"github.com/sidhant-sriv/catalog-api/db"
)

// setupPostgresStore starts a PostgreSQL container and returns a migrated store
func setupPostgresStore(t *testing.T) *catalog.Store {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("catalogstore"),
		postgres.WithUsername("db_admin"),
		postgres.WithPassword("admin"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	gdb, err := db.Open(config.Database{
		Driver:   config.DriverPostgres,
		Host:     host,
		Port:     port.Port(),
		User:     "db_admin",
		Password: "admin",
		Name:     "catalogstore",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))

	return catalog.New(gdb, catalog.WithLogger(log), catalog.WithMaxAttempts(10))
}

func TestPostgresConcurrentCategoryCreation(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	owner, err := store.UpsertUser(ctx, "Admin", "admin@example.com", "")
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreateItem(ctx, catalog.NewItem{
				Name:     fmt.Sprintf("utensil-%d", i),
				Category: "cutlery",
				UserID:   owner,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "cutlery", categories[0].Name)
}

func TestPostgresChurnKeepsInvariants(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	owner, err := store.UpsertUser(ctx, "Admin", "admin@example.com", "")
	require.NoError(t, err)

	// Each worker repeatedly adds and removes the only item of a shared
	// category while others do the same, racing creation against pruning.
	const workers = 8
	const rounds = 15
	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				item, err := store.CreateItem(ctx, catalog.NewItem{
					Name:     fmt.Sprintf("w%d-r%d", w, r),
					Category: fmt.Sprintf("shelf-%d", r%2),
					UserID:   owner,
				})
				if err != nil {
					errs <- err
					continue
				}
				if _, err := store.EditItem(ctx, item.ID, catalog.ItemEdit{Category: fmt.Sprintf("shelf-%d", (r+1)%2)}, owner); err != nil {
					errs <- err
					continue
				}
				if err := store.DeleteItem(ctx, item.ID, owner); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("operation failed: %v", err)
	}

	report, err := store.Audit(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy())
	assert.Zero(t, report.Items)
	assert.Zero(t, report.Categories)
}

func TestPostgresUpsertUserConcurrent(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	const workers = 12
	var wg sync.WaitGroup
	ids := make([]uint, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = store.UpsertUser(ctx, "Carol", "carol@example.com", "")
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
}
