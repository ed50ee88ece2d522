package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage"
)

// accountNumberAttempts bounds retry-on-collision when generating account
// numbers. The number space holds 900k values, so collisions stay rare.
const accountNumberAttempts = 10

// Register creates a user plus exactly one zero-balance account owned by
// that user, then issues a session token.
func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, models.Account, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, models.Account{}, "", ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, models.Account{}, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.User{}, models.Account{}, "", ErrDuplicateUser
		}
		return models.User{}, models.Account{}, "", fmt.Errorf("create user: %w", err)
	}

	account, err := s.createAccount(ctx, user.ID)
	if err != nil {
		return models.User{}, models.Account{}, "", fmt.Errorf("create account: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return models.User{}, models.Account{}, "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user registered", "userId", user.ID, "accountNumber", account.AccountNumber)
	return user, account, token, nil
}

// Login verifies the credentials and issues a session token. Failures never
// reveal whether the username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return models.User{}, "", ErrInvalidInput
	}

	user, err := s.users.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("find user: %w", err)
	}
	if !checkPassword(user.PasswordHash, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return models.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Logout revokes the caller's current token.
func (s *Service) Logout(token string) {
	s.tokens.Revoke(token)
}

func (s *Service) createAccount(ctx context.Context, userID string) (models.Account, error) {
	for range accountNumberAttempts {
		account, err := s.accounts.CreateAccount(ctx, models.Account{
			ID:            uuid.NewString(),
			UserID:        userID,
			AccountNumber: newAccountNumber(),
			Balance:       decimal.Zero,
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			continue
		}
		return account, err
	}
	return models.Account{}, errors.New("exhausted account number attempts")
}

// newAccountNumber returns an externally addressable number in the
// five-digits, dash, check-digit shape.
func newAccountNumber() string {
	return fmt.Sprintf("%05d-%d", 10000+rand.IntN(90000), rand.IntN(10))
}
