package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sidhant-sriv/catalog-api/models"
)

// UpsertUser returns the id of the user registered with email, creating the
// user from the given profile on first login. Concurrent calls with the same
// email resolve to one row.
func (s *Store) UpsertUser(ctx context.Context, name, email, picture string) (uint, error) {
	if err := required("email", email); err != nil {
		return 0, err
	}
	if err := required("name", name); err != nil {
		return 0, err
	}

	var id uint
	err := s.inTx(ctx, "upsert user", func(tx *gorm.DB) error {
		existing, err := findUserByEmail(tx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			id = existing.ID
			return nil
		}

		user := models.User{Name: name, Email: email, Picture: picture}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&user)
		if result.Error != nil {
			return fmt.Errorf("create user: %w", result.Error)
		}
		if result.RowsAffected == 1 && user.ID != 0 {
			id = user.ID
			s.log.WithField("user_id", id).Info("registered new user")
			return nil
		}

		existing, err = findUserByEmail(tx, email)
		if err != nil {
			return err
		}
		if existing == nil {
			return errRetry
		}
		id = existing.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.inTx(ctx, "get user", func(tx *gorm.DB) error {
		err := tx.Where("id = ?", id).Take(&user).Error
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		default:
			return fmt.Errorf("find user: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func findUserByEmail(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", email).Take(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func requireUser(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return nil
}
