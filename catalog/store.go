// Package catalog owns users, categories and items and keeps them consistent:
// every item belongs to exactly one category, a category disappears with its
// last item, and item names are unique across the catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMaxAttempts = 3

// Store is the only writer of the catalog tables. Each exported operation
// runs as a single transaction.
type Store struct {
	db          *gorm.DB
	log         logrus.FieldLogger
	maxAttempts int
}

type Option func(*Store)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMaxAttempts bounds how often a transaction that hit a transient
// conflict is run again.
func WithMaxAttempts(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:          db,
		log:         logrus.StandardLogger(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// forUpdate locks the selected rows until commit. SQLite ignores it; writers
// are already serialized there.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// inTx runs fn in a transaction, starting over on transient conflicts.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		s.log.WithFields(logrus.Fields{
			"op":      op,
			"attempt": attempt,
		}).WithError(err).Warn("retrying catalog transaction")
	}
	return fmt.Errorf("%w: %s kept colliding with concurrent writes: %v", ErrConflict, op, err)
}

func isRetryable(err error) bool {
	if errors.Is(err, errRetry) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return true
		}
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
