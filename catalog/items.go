package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidhant-sriv/catalog-api/models"
)

// NewItem represents data required to create an item.
type NewItem struct {
	Name        string
	Description string
	Category    string
	UserID      uint
}

func (in NewItem) validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	if err := required("category", in.Category); err != nil {
		return err
	}
	if in.UserID == 0 {
		return &ValidationError{Field: "user_id", Message: "must be set"}
	}
	return nil
}

// ItemEdit carries the replacement values for an item. An empty Name keeps
// the current name.
type ItemEdit struct {
	Name        string
	Description string
	Category    string
}

// ListItems returns items ordered by name, restricted to one category when
// categoryID is not nil.
func (s *Store) ListItems(ctx context.Context, categoryID *uint) ([]models.Item, error) {
	var items []models.Item
	err := s.inTx(ctx, "list items", func(tx *gorm.DB) error {
		items = nil
		query := tx.Order("name ASC")
		if categoryID != nil {
			if _, err := findCategory(tx, *categoryID); err != nil {
				return err
			}
			query = query.Where("category_id = ?", *categoryID)
		}
		if err := query.Find(&items).Error; err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item *models.Item
	err := s.inTx(ctx, "get item", func(tx *gorm.DB) error {
		var err error
		item, err = findItem(tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem files a new item under the named category, creating the
// category in the same transaction when it does not exist yet.
func (s *Store) CreateItem(ctx context.Context, in NewItem) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var item models.Item
	var categoryCreated bool
	err := s.inTx(ctx, "create item", func(tx *gorm.DB) error {
		if err := requireUser(tx, in.UserID); err != nil {
			return err
		}
		if err := ensureNameFree(tx, in.Name, 0); err != nil {
			return err
		}

		category, created, err := resolveCategory(tx, in.Category)
		if err != nil {
			return err
		}
		categoryCreated = created

		item = models.Item{
			Name:        in.Name,
			Description: in.Description,
			CategoryID:  category.ID,
			UserID:      in.UserID,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: item %q already exists", ErrConflict, in.Name)
			}
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"item_id":          item.ID,
		"category_id":      item.CategoryID,
		"category_created": categoryCreated,
	}).Debug("item created")
	return &item, nil
}

// EditItem replaces the description, category and optionally the name of an
// item owned by requesterID. The item keeps its id and owner. A category left
// without items is deleted in the same transaction.
func (s *Store) EditItem(ctx context.Context, id uint, edit ItemEdit, requesterID uint) (*models.Item, error) {
	if err := required("category", edit.Category); err != nil {
		return nil, err
	}

	var item *models.Item
	var pruned bool
	var oldCategoryID uint
	err := s.inTx(ctx, "edit item", func(tx *gorm.DB) error {
		current, err := findItem(tx, id, true)
		if err != nil {
			return err
		}
		if current.UserID != requesterID {
			return fmt.Errorf("%w: item %d belongs to another user", ErrPermissionDenied, id)
		}

		name := edit.Name
		if name == "" {
			name = current.Name
		}
		if name != current.Name {
			if err := ensureNameFree(tx, name, current.ID); err != nil {
				return err
			}
		}

		category, _, err := resolveCategory(tx, edit.Category)
		if err != nil {
			return err
		}

		oldCategoryID = current.CategoryID
		updates := map[string]interface{}{
			"name":        name,
			"description": edit.Description,
			"category_id": category.ID,
		}
		if err := tx.Model(current).Omit(clause.Associations).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: item %q already exists", ErrConflict, name)
			}
			return fmt.Errorf("update item: %w", err)
		}
		current.Name = name
		current.Description = edit.Description
		current.CategoryID = category.ID

		pruned = false
		if oldCategoryID != category.ID {
			if pruned, err = pruneIfOrphaned(tx, oldCategoryID); err != nil {
				return err
			}
		}
		item = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pruned {
		s.log.WithField("category_id", oldCategoryID).Info("removed empty category")
	}
	return item, nil
}

// DeleteItem removes an item owned by requesterID and its category when that
// was the category's last item.
func (s *Store) DeleteItem(ctx context.Context, id uint, requesterID uint) error {
	var pruned bool
	var categoryID uint
	err := s.inTx(ctx, "delete item", func(tx *gorm.DB) error {
		item, err := findItem(tx, id, true)
		if err != nil {
			return err
		}
		if item.UserID != requesterID {
			return fmt.Errorf("%w: item %d belongs to another user", ErrPermissionDenied, id)
		}

		if err := tx.Delete(&models.Item{}, item.ID).Error; err != nil {
			return fmt.Errorf("delete item: %w", err)
		}

		categoryID = item.CategoryID
		pruned, err = pruneIfOrphaned(tx, categoryID)
		return err
	})
	if err != nil {
		return err
	}

	if pruned {
		s.log.WithField("category_id", categoryID).Info("removed empty category")
	}
	return nil
}

func findItem(tx *gorm.DB, id uint, lock bool) (*models.Item, error) {
	query := tx
	if lock {
		query = query.Clauses(forUpdate)
	}

	var item models.Item
	err := query.Where("id = ?", id).Take(&item).Error
	switch {
	case err == nil:
		return &item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("%w: item %d", ErrNotFound, id)
	default:
		return nil, fmt.Errorf("find item: %w", err)
	}
}

// ensureNameFree fails with ErrConflict when another item already uses name.
// exceptID excludes the item being edited.
func ensureNameFree(tx *gorm.DB, name string, exceptID uint) error {
	var count int64
	query := tx.Model(&models.Item{}).Where("name = ?", name)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("check item name: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: item %q already exists", ErrConflict, name)
	}
	return nil
}
