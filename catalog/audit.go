package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sidhant-sriv/catalog-api/models"
)

// AuditReport summarizes the catalog and any invariant violations found.
type AuditReport struct {
	Users              int64
	Categories         int64
	Items              int64
	OrphanCategories   []models.Category
	DuplicateItemNames []string
}

// Healthy reports whether every category has an item and every item name is
// unique.
func (r AuditReport) Healthy() bool {
	return len(r.OrphanCategories) == 0 && len(r.DuplicateItemNames) == 0
}

const orphanCondition = "NOT EXISTS (SELECT 1 FROM items WHERE items.category_id = categories.id)"

// Audit checks the store invariants against a consistent snapshot. It never
// writes.
func (s *Store) Audit(ctx context.Context) (AuditReport, error) {
	var report AuditReport
	err := s.inTx(ctx, "audit", func(tx *gorm.DB) error {
		report = AuditReport{}
		if err := tx.Model(&models.User{}).Count(&report.Users).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if err := tx.Model(&models.Category{}).Count(&report.Categories).Error; err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if err := tx.Model(&models.Item{}).Count(&report.Items).Error; err != nil {
			return fmt.Errorf("count items: %w", err)
		}
		if err := tx.Where(orphanCondition).Order("name ASC").Find(&report.OrphanCategories).Error; err != nil {
			return fmt.Errorf("find orphan categories: %w", err)
		}
		if err := tx.Model(&models.Item{}).
			Group("name").
			Having("COUNT(*) > 1").
			Order("name ASC").
			Pluck("name", &report.DuplicateItemNames).Error; err != nil {
			return fmt.Errorf("find duplicate item names: %w", err)
		}
		return nil
	})
	return report, err
}

// PruneOrphanCategories deletes categories that no item references, e.g. rows
// left behind by imports that bypassed the store.
func (s *Store) PruneOrphanCategories(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.inTx(ctx, "prune categories", func(tx *gorm.DB) error {
		result := tx.Where(orphanCondition).Delete(&models.Category{})
		if result.Error != nil {
			return fmt.Errorf("delete orphan categories: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.WithField("count", deleted).Warn("pruned orphan categories")
	}
	return deleted, nil
}
