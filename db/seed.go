package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/sidhant-sriv/catalog-api/catalog"
)

type seedCategory struct {
	name  string
	items []string
}

var demoCatalog = []seedCategory{
	{name: "kitchen", items: []string{"fork", "knife", "spoon", "plate", "bowl"}},
	{name: "bathroom", items: []string{"toothbrush", "toothpaste", "floss", "razor", "hairbrush"}},
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	UserID  uint
	Created int
	Skipped int
}

// Seed registers the Admin user and files the demo items under it. Items
// whose names are already taken are skipped, so running it twice is safe.
func Seed(ctx context.Context, store *catalog.Store) (SeedResult, error) {
	var result SeedResult

	userID, err := store.UpsertUser(ctx, "Admin", "admin@example.com", "")
	if err != nil {
		return result, fmt.Errorf("seed admin user: %w", err)
	}
	result.UserID = userID

	for _, category := range demoCatalog {
		for _, name := range category.items {
			_, err := store.CreateItem(ctx, catalog.NewItem{
				Name:     name,
				Category: category.name,
				UserID:   userID,
			})
			switch {
			case err == nil:
				result.Created++
			case errors.Is(err, catalog.ErrConflict):
				result.Skipped++
			default:
				return result, fmt.Errorf("seed item %q: %w", name, err)
			}
		}
	}
	return result, nil
}
