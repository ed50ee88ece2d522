package ledger

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage"
)

// Transfer passwords are numeric, at least 4 digits.
var transferPasswordPattern = regexp.MustCompile(`^\d{4,}$`)

// AccountByUserID returns the account owned by the given user.
func (s *Service) AccountByUserID(ctx context.Context, userID string) (models.Account, error) {
	return s.lookup(s.accounts.AccountByUserID(ctx, userID))
}

// AccountByNumber returns the account with the given account number.
func (s *Service) AccountByNumber(ctx context.Context, number string) (models.Account, error) {
	return s.lookup(s.accounts.AccountByNumber(ctx, number))
}

// AccountByID returns the account with the given id.
func (s *Service) AccountByID(ctx context.Context, id string) (models.Account, error) {
	return s.lookup(s.accounts.AccountByID(ctx, id))
}

// Balance returns the balance of the account with the given id. Balances
// are never exposed cross-user: the requesting user must own the account.
func (s *Service) Balance(ctx context.Context, accountID, requestingUserID string) (decimal.Decimal, error) {
	account, err := s.AccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if account.UserID != requestingUserID {
		return decimal.Zero, ErrForbidden
	}
	return account.Balance, nil
}

// SetTransferPassword sets or overwrites the account's transfer password.
// Setting the same password twice is a no-op.
func (s *Service) SetTransferPassword(ctx context.Context, accountNumber, password, requestingUserID string) error {
	if accountNumber == "" || !transferPasswordPattern.MatchString(password) {
		return ErrInvalidInput
	}
	return s.accounts.UpdateAccounts(ctx, func(accounts []*models.Account) error {
		account := findByNumber(accounts, accountNumber)
		if account == nil {
			return ErrAccountNotFound
		}
		if account.UserID != requestingUserID {
			return ErrForbidden
		}
		account.TransferPassword = password
		return nil
	})
}

// ChangeTransferPassword replaces an existing transfer password after
// checking the current one. The new password must differ from the current.
func (s *Service) ChangeTransferPassword(ctx context.Context, accountNumber, oldPassword, newPassword, requestingUserID string) error {
	if accountNumber == "" || oldPassword == "" || !transferPasswordPattern.MatchString(newPassword) {
		return ErrInvalidInput
	}
	return s.accounts.UpdateAccounts(ctx, func(accounts []*models.Account) error {
		account := findByNumber(accounts, accountNumber)
		if account == nil {
			return ErrAccountNotFound
		}
		if account.UserID != requestingUserID {
			return ErrForbidden
		}
		if account.TransferPassword == "" {
			return ErrTransferPasswordNotSet
		}
		if !matchTransferPassword(account.TransferPassword, oldPassword) {
			return ErrIncorrectOldPassword
		}
		if matchTransferPassword(account.TransferPassword, newPassword) {
			return ErrSameAsOldPassword
		}
		account.TransferPassword = newPassword
		return nil
	})
}

// VerifyTransferPassword reports whether the supplied password matches the
// account's transfer password, without revealing the stored value.
func (s *Service) VerifyTransferPassword(ctx context.Context, accountNumber, password, requestingUserID string) (bool, error) {
	if accountNumber == "" || password == "" {
		return false, ErrInvalidInput
	}
	account, err := s.AccountByNumber(ctx, accountNumber)
	if err != nil {
		return false, err
	}
	if account.UserID != requestingUserID {
		return false, ErrForbidden
	}
	if account.TransferPassword == "" {
		return false, ErrTransferPasswordNotSet
	}
	return matchTransferPassword(account.TransferPassword, password), nil
}

func (s *Service) lookup(account models.Account, err error) (models.Account, error) {
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

func findByNumber(accounts []*models.Account, number string) *models.Account {
	for _, a := range accounts {
		if a.AccountNumber == number {
			return a
		}
	}
	return nil
}
