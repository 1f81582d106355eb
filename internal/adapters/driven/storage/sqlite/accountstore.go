package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// accountStore implements driven.AccountStore.
type accountStore struct {
	store *Store
}

var _ driven.AccountStore = (*accountStore)(nil)

// Save stores a new account. A username or email collision is reported
// as domain.ErrAlreadyExists.
func (s *accountStore) Save(ctx context.Context, account domain.Account) error {
	res, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO accounts (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.Username, account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", account.Username, domain.ErrAlreadyExists)
	}
	return nil
}

// Get retrieves an account by id.
func (s *accountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE id = ?
	`, id)

	return scanAccount(row)
}

// GetByUsername retrieves an account by its unique username.
func (s *accountStore) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE username = ?
	`, username)

	return scanAccount(row)
}

// Update overwrites the mutable fields of an existing account. The OR
// IGNORE keeps a username/email collision from clobbering other rows;
// zero affected rows on an existing account means a collision.
func (s *accountStore) Update(ctx context.Context, account domain.Account) error {
	if _, err := s.Get(ctx, account.ID); err != nil {
		return err
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE OR IGNORE accounts
		SET username = ?, email = ?, password_hash = ?
		WHERE id = ?
	`, account.Username, account.Email, account.PasswordHash, account.ID)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", account.Username, domain.ErrAlreadyExists)
	}
	return nil
}

// Delete removes an account by id.
func (s *accountStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanAccount scans a single account row.
func scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(&account.ID, &account.Username, &account.Email,
		&account.PasswordHash, &account.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}
	return &account, nil
}
