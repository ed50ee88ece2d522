package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ledgerline/ledger-be/internal/auth"
	"github.com/ledgerline/ledger-be/internal/config"
	"github.com/ledgerline/ledger-be/internal/http/handlers"
	"github.com/ledgerline/ledger-be/internal/ledger"
	"github.com/ledgerline/ledger-be/internal/middleware"
	"github.com/ledgerline/ledger-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires stores, the token manager, the ledger service, handlers, and
// middleware into a ready server.
func New(cfg config.Config, log *slog.Logger, users storage.UserStore, accounts storage.AccountStore) *Server {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	svc := ledger.New(users, accounts, tokens, log)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(svc, tokens, log).Register(mux)
	handlers.NewAccountHandler(svc, tokens, log).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(log, mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
