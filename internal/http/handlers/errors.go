package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ledgerline/ledger-be/internal/http/respond"
	"github.com/ledgerline/ledger-be/internal/ledger"
)

// Machine-readable codes clients branch on.
const (
	codeTransferPasswordIncorrect = "P401"
	codeTransferPasswordNotSet    = "P404"
)

// writeDomainError is the single translation point from ledger errors to
// HTTP statuses. Unexpected failures are logged and masked as a generic 500
// so internals never leak to clients.
func writeDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrNonPositiveAmount),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, ledger.ErrInsufficientFunds):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrTransferPasswordNotSet):
		respond.ErrorCode(w, http.StatusUnauthorized, codeTransferPasswordNotSet,
			"transfer password not set; please set it before transferring")
	case errors.Is(err, ledger.ErrTransferPasswordIncorrect):
		respond.ErrorCode(w, http.StatusUnauthorized, codeTransferPasswordIncorrect, err.Error())
	case errors.Is(err, ledger.ErrIncorrectOldPassword),
		errors.Is(err, ledger.ErrSameAsOldPassword),
		errors.Is(err, ledger.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ledger.ErrForbidden):
		respond.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrAccountNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicateUser):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error("internal error", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
