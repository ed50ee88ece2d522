package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/models"
)

// TransferInput carries a funds-movement request between two accounts.
type TransferInput struct {
	FromAccountNumber string
	ToAccountNumber   string
	TransferPassword  string
	Amount            decimal.Decimal
}

// TransferResult holds the committed state of both sides of a transfer.
type TransferResult struct {
	From models.Account
	To   models.Account
}

// Transfer validates and executes a balance transfer. The gates run in
// order inside a single store update cycle; the first failing gate aborts
// with nothing persisted. On success the debit, the credit, and the
// collection write commit as one unit.
//
// The requesting user must own the source account. The ownership gate runs
// before the credential gates so a non-owner learns nothing about the
// transfer password.
func (s *Service) Transfer(ctx context.Context, requestingUserID string, in TransferInput) (TransferResult, error) {
	if in.FromAccountNumber == "" || in.ToAccountNumber == "" || in.TransferPassword == "" {
		return TransferResult{}, ErrInvalidInput
	}

	var result TransferResult
	err := s.accounts.UpdateAccounts(ctx, func(accounts []*models.Account) error {
		from := findByNumber(accounts, in.FromAccountNumber)
		to := findByNumber(accounts, in.ToAccountNumber)
		if from == nil || to == nil {
			return ErrAccountNotFound
		}
		if from.ID == to.ID {
			return ErrSameAccount
		}
		if from.UserID != requestingUserID {
			return ErrForbidden
		}
		if from.TransferPassword == "" {
			return ErrTransferPasswordNotSet
		}
		if !matchTransferPassword(from.TransferPassword, in.TransferPassword) {
			return ErrTransferPasswordIncorrect
		}
		if !in.Amount.IsPositive() {
			return ErrNonPositiveAmount
		}
		if from.Balance.LessThan(in.Amount) {
			return ErrInsufficientFunds
		}

		// Round to 2 decimal places so repeated transfers cannot drift.
		from.Balance = from.Balance.Sub(in.Amount).Round(2)
		to.Balance = to.Balance.Add(in.Amount).Round(2)
		result = TransferResult{From: *from, To: *to}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}

	s.log.Info("transfer committed",
		"from", result.From.AccountNumber,
		"to", result.To.AccountNumber,
		"amount", in.Amount.String(),
	)
	return result, nil
}
