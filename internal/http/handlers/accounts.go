package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ledgerline/ledger-be/internal/auth"
	"github.com/ledgerline/ledger-be/internal/http/respond"
	"github.com/ledgerline/ledger-be/internal/ledger"
	"github.com/ledgerline/ledger-be/internal/middleware"
	"github.com/ledgerline/ledger-be/internal/models/dto"
)

// AccountHandler owns the account lookup, balance, transfer-password, and
// transfer endpoints. Every route requires a valid bearer token.
type AccountHandler struct {
	svc    *ledger.Service
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(svc *ledger.Service, tokens *auth.TokenManager, log *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, tokens: tokens, log: log}
}

// Register attaches account routes to the mux.
func (h *AccountHandler) Register(mux *http.ServeMux) {
	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, middleware.RequireAuth(h.tokens, fn))
	}
	protected("GET /accounts/{userId}", h.handleAccountByUser)
	protected("GET /accounts/{accountId}/balance", h.handleBalance)
	protected("POST /accounts/set_transfer_password", h.handleSetTransferPassword)
	protected("POST /accounts/change_transfer_password", h.handleChangeTransferPassword)
	protected("POST /accounts/verify_transfer_password", h.handleVerifyTransferPassword)
	protected("POST /accounts/transfer", h.handleTransfer)
}

func (h *AccountHandler) handleAccountByUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.AccountByUserID(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.NewAccountView(account))
}

func (h *AccountHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFrom(r.Context())
	balance, err := h.svc.Balance(r.Context(), r.PathValue("accountId"), claims.UserID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

func (h *AccountHandler) handleSetTransferPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.SetTransferPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	if err := h.svc.SetTransferPassword(r.Context(), req.AccountNumber, req.TransferPassword, claims.UserID); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "transfer password set"})
}

func (h *AccountHandler) handleChangeTransferPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeTransferPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	err := h.svc.ChangeTransferPassword(r.Context(),
		req.AccountNumber, req.OldTransferPassword, req.NewTransferPassword, claims.UserID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "transfer password changed"})
}

func (h *AccountHandler) handleVerifyTransferPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyTransferPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	valid, err := h.svc.VerifyTransferPassword(r.Context(), req.AccountNumber, req.TransferPassword, claims.UserID)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (h *AccountHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Amount == nil {
		respond.Error(w, http.StatusBadRequest, ledger.ErrInvalidInput.Error())
		return
	}

	claims, _ := middleware.ClaimsFrom(r.Context())
	result, err := h.svc.Transfer(r.Context(), claims.UserID, ledger.TransferInput{
		FromAccountNumber: req.FromAccountNumber,
		ToAccountNumber:   req.ToAccountNumber,
		TransferPassword:  req.TransferPassword,
		Amount:            *req.Amount,
	})
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.TransferResponse{
		Message:     "transfer completed",
		FromAccount: dto.NewAccountView(result.From),
		ToAccount:   dto.NewAccountView(result.To),
	})
}
