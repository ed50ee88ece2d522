// Package dto defines the request and response shapes exchanged with API
// clients. Field names follow the external wire format, which is not always
// the same as the persistence format.
package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserView is the client-facing projection of a user; it never carries the
// password hash.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AccountView is the client-facing projection of an account; it never
// carries the transfer password.
type AccountView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserView     `json:"user"`
	Account *AccountView `json:"account,omitempty"`
}

type SetTransferPasswordRequest struct {
	AccountNumber    string `json:"accountNumber"`
	TransferPassword string `json:"transfer_password"`
}

type ChangeTransferPasswordRequest struct {
	AccountNumber       string `json:"accountNumber"`
	OldTransferPassword string `json:"old_transfer_password"`
	NewTransferPassword string `json:"new_transfer_password"`
}

type VerifyTransferPasswordRequest struct {
	AccountNumber    string `json:"accountNumber"`
	TransferPassword string `json:"transfer_password"`
}

type TransferRequest struct {
	FromAccountNumber string           `json:"fromAccountNumber"`
	ToAccountNumber   string           `json:"toAccountNumber"`
	TransferPassword  string           `json:"transfer_password"`
	Amount            *decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	Message     string      `json:"message"`
	FromAccount AccountView `json:"fromAccount"`
	ToAccount   AccountView `json:"toAccount"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// NewUserView strips credential material from a user record.
func NewUserView(u models.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email}
}

// NewAccountView strips the transfer password from an account record.
func NewAccountView(a models.Account) AccountView {
	return AccountView{
		ID:            a.ID,
		UserID:        a.UserID,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
	}
}
