package repository

import (
	"context"
	"errors"
	"strings"

	"checkmate/internal/consensus"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithinTransaction runs fn against a Repository bound to one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (r *Repository) WithinTransaction(ctx context.Context, fn func(tx consensus.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite drivers without a translator
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ consensus.Store = (*Repository)(nil)
