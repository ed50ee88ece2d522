package ledger

import (
	"log/slog"

	"github.com/ledgerline/ledger-be/internal/auth"
	"github.com/ledgerline/ledger-be/internal/storage"
)

// Service is the application core behind the HTTP surface. All balance and
// transfer-password mutations go through the account store's serialized
// read-modify-write cycle, so no partial state is ever persisted.
type Service struct {
	users    storage.UserStore
	accounts storage.AccountStore
	tokens   *auth.TokenManager
	log      *slog.Logger
}

// New wires the service to its stores and the token manager.
func New(users storage.UserStore, accounts storage.AccountStore, tokens *auth.TokenManager, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{users: users, accounts: accounts, tokens: tokens, log: log}
}
