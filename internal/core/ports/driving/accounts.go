package driving

import (
	"context"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// AccountManager manages caller accounts and their bearer tokens.
type AccountManager interface {
	// Create registers a new account. Username and email must be unique.
	Create(ctx context.Context, username, email, password string) (*domain.Account, error)

	// Login verifies the password and issues a signed bearer token for
	// the account. Bad credentials are domain.ErrUnauthorized.
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)

	// Authenticate verifies a bearer token without a server-side lookup
	// table and returns the account it identifies.
	Authenticate(ctx context.Context, token string) (*domain.Account, error)

	// Get returns an account by id.
	Get(ctx context.Context, id string) (*domain.Account, error)

	// Update changes username and email of an account.
	Update(ctx context.Context, id, username, email string) (*domain.Account, error)

	// Delete removes an account.
	Delete(ctx context.Context, id string) error

	// ChangePassword verifies the old password before storing a hash of
	// the new one.
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
}
