package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidhant-sriv/catalog-api/models"
)

// ListCategories returns every category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.inTx(ctx, "list categories", func(tx *gorm.DB) error {
		categories = nil
		if err := tx.Order("name ASC").Find(&categories).Error; err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category *models.Category
	err := s.inTx(ctx, "get category", func(tx *gorm.DB) error {
		var err error
		category, err = findCategory(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func findCategory(tx *gorm.DB, id uint) (*models.Category, error) {
	var category models.Category
	err := tx.Where("id = ?", id).Take(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

// lockCategoryByName returns the category with exactly this name, locked for
// the rest of the transaction, or nil when there is none.
func lockCategoryByName(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Clauses(forUpdate).Where("name = ?", name).Take(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find category: %w", err)
	}
}

// resolveCategory returns the category called name, creating it when it does
// not exist yet. When a concurrent transaction creates the same name first,
// the insert does nothing and the winner's row is used.
func resolveCategory(tx *gorm.DB, name string) (*models.Category, bool, error) {
	category, err := lockCategoryByName(tx, name)
	if err != nil || category != nil {
		return category, false, err
	}

	created := models.Category{Name: name}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&created)
	if result.Error != nil {
		return nil, false, fmt.Errorf("create category: %w", result.Error)
	}
	if result.RowsAffected == 1 && created.ID != 0 {
		return &created, true, nil
	}

	category, err = lockCategoryByName(tx, name)
	if err != nil {
		return nil, false, err
	}
	if category == nil {
		// The winner was pruned again before we could see it.
		return nil, false, errRetry
	}
	return category, false, nil
}

// pruneIfOrphaned deletes the category when no item references it any more.
// Callers run it after the item change it depends on, inside the same
// transaction.
func pruneIfOrphaned(tx *gorm.DB, categoryID uint) (bool, error) {
	var category models.Category
	err := tx.Clauses(forUpdate).Where("id = ?", categoryID).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock category: %w", err)
	}

	var remaining int64
	if err := tx.Model(&models.Item{}).Where("category_id = ?", categoryID).Count(&remaining).Error; err != nil {
		return false, fmt.Errorf("count category items: %w", err)
	}
	if remaining > 0 {
		return false, nil
	}

	if err := tx.Delete(&models.Category{}, categoryID).Error; err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return true, nil
}
