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

// AuthHandler owns registration, login, logout, and the current-user
// endpoint.
type AuthHandler struct {
	svc    *ledger.Service
	tokens *auth.TokenManager
	log    *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *ledger.Service, tokens *auth.TokenManager, log *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.Handle("POST /logout", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /me", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleMe)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, account, token, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	accountView := dto.NewAccountView(account)
	respond.JSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "user and account created",
		Token:   token,
		User:    dto.NewUserView(user),
		Account: &accountView,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	respond.JSON(w, http.StatusOK, dto.AuthResponse{
		Message: "login successful",
		Token:   token,
		User:    dto.NewUserView(user),
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "token not provided")
		return
	}
	h.svc.Logout(token)
	respond.JSON(w, http.StatusOK, map[string]any{"status": true, "message": "logged out"})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "token not provided")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"user": dto.UserView{ID: claims.UserID, Username: claims.Username, Email: claims.Email},
	})
}
