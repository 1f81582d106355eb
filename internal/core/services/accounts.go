package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/aviary-labs/aviary/internal/core/domain"
	"github.com/aviary-labs/aviary/internal/core/ports/driven"
	"github.com/aviary-labs/aviary/internal/core/ports/driving"
)

// DefaultTokenTTL is the bearer token lifetime used when the config does
// not set one.
const DefaultTokenTTL = 24 * time.Hour

// Ensure AccountService implements the interface.
var _ driving.AccountManager = (*AccountService)(nil)

// AccountService manages caller accounts. Passwords are stored as bcrypt
// hashes; bearer tokens are HS256 JWTs carrying the account id as
// subject, verifiable without a server-side lookup table.
type AccountService struct {
	store    driven.AccountStore
	secret   []byte
	tokenTTL time.Duration
	log      *logrus.Entry
}

// NewAccountService creates an account manager signing tokens with the
// given secret key.
func NewAccountService(store driven.AccountStore, secret []byte, tokenTTL time.Duration, log *logrus.Entry) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AccountService{
		store:    store,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *AccountService) Create(ctx context.Context, username, email, password string) (*domain.Account, error) {
	if username == "" || password == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("username, email and password are required: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Save(ctx, account); err != nil {
		return nil, err
	}

	s.log.WithField("username", username).Info("account created")
	return &account, nil
}

// Login verifies the password and issues a signed bearer token.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	account, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.issueToken(account.ID)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

// Authenticate verifies a bearer token and loads the account it names.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	id, err := s.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	account, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Token for a deleted account.
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return account, nil
}

// Get returns an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.store.Get(ctx, id)
}

// Update changes username and email of an account.
func (s *AccountService) Update(ctx context.Context, id, username, email string) (*domain.Account, error) {
	if username == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("username and email are required: %w", domain.ErrInvalidInput)
	}

	account, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Username = username
	account.Email = email
	if err := s.store.Update(ctx, *account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("account_id", id).Info("account deleted")
	return nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required: %w", domain.ErrInvalidInput)
	}

	account, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	account.PasswordHash = string(hash)
	return s.store.Update(ctx, *account)
}

// issueToken signs a JWT with the account id as subject.
func (s *AccountService) issueToken(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the account id the
// token encodes. No server-side state is consulted.
func (s *AccountService) VerifyToken(token string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
