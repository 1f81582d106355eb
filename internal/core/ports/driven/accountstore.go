package driven

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// AccountStore is the persistence boundary for caller accounts.
type AccountStore interface {
	// Save stores a new account. A username or email collision returns
	// domain.ErrAlreadyExists.
	Save(ctx context.Context, account domain.Account) error

	// Get returns an account by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Account, error)

	// GetByUsername returns an account by its unique username, or
	// domain.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)

	// Update overwrites the mutable fields (username, email, password
	// hash) of an existing account.
	Update(ctx context.Context, account domain.Account) error

	// Delete removes an account by id. Deleting an absent account
	// returns domain.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
