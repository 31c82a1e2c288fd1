package repository

import (
	"context"
	"errors"

	"trashcash_webapp/internal/domain"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountStore keeps user records keyed by platform user id.
type AccountStore interface {
	Get(ctx context.Context, userID int64) (*domain.Account, error)
	Put(ctx context.Context, acc *domain.Account) error
	// Update creates the record if missing and runs fn on a private copy.
	// The copy is persisted only when fn returns nil. Updates of the same
	// user are serialized.
	Update(ctx context.Context, userID int64, fn func(acc *domain.Account) error) (*domain.Account, error)
}
