// Package ledger implements the account-ledger business rules: registration
// and login, balance queries, transfer-password management, and the
// transfer authorization engine. Callers match errors with errors.Is; the
// HTTP layer translates them to status codes.
package ledger

import "errors"

var (
	// ErrInvalidInput covers missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials covers login failures without revealing whether
	// the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUser means the username or email is already registered.
	ErrDuplicateUser = errors.New("username or email already registered")

	// ErrAccountNotFound means an account could not be resolved.
	ErrAccountNotFound = errors.New("account not found")

	// ErrForbidden means the requesting user does not own the account.
	ErrForbidden = errors.New("access to this account denied")

	// ErrSameAccount means source and destination are the same account.
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrTransferPasswordNotSet means no transfer password has been
	// configured yet; clients use this to prompt for setup.
	ErrTransferPasswordNotSet = errors.New("transfer password not set")

	// ErrTransferPasswordIncorrect means the supplied transfer password does
	// not match.
	ErrTransferPasswordIncorrect = errors.New("transfer password incorrect")

	// ErrIncorrectOldPassword means the current transfer password supplied
	// for a change does not match.
	ErrIncorrectOldPassword = errors.New("current transfer password incorrect")

	// ErrSameAsOldPassword means the new transfer password equals the
	// current one.
	ErrSameAsOldPassword = errors.New("new transfer password must differ from the current one")

	// ErrNonPositiveAmount means the transfer amount is zero or negative.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds means the source balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
