package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
)

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore is an in-memory implementation of driven.AccountStore
// used in tests.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
}

// NewAccountStore creates an empty in-memory account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]domain.Account)}
}

// Save stores a new account, rejecting username/email collisions.
func (s *AccountStore) Save(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return fmt.Errorf("account %s: %w", account.Username, domain.ErrAlreadyExists)
		}
	}
	s.accounts[account.ID] = account
	return nil
}

// Get returns an account by id.
func (s *AccountStore) Get(_ context.Context, id string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &account, nil
}

// GetByUsername returns an account by username.
func (s *AccountStore) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.Username == username {
			a := account
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Update overwrites the mutable fields of an existing account.
func (s *AccountStore) Update(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range s.accounts {
		if id == account.ID {
			continue
		}
		if existing.Username == account.Username || existing.Email == account.Email {
			return fmt.Errorf("account %s: %w", account.Username, domain.ErrAlreadyExists)
		}
	}
	s.accounts[account.ID] = account
	return nil
}

// Delete removes an account by id.
func (s *AccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}
