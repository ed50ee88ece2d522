// Package storage declares the persistence contracts consumed by the ledger
// service. Each store owns one collection and is the sole writer of its
// records.
package storage

import (
	"context"
	"errors"

	"github.com/ledgerline/ledger-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore persists user credential records. Username and email are unique
// across the collection.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByUsername(ctx context.Context, username string) (models.User, error)
}

// AccountStore persists account records. Account IDs and account numbers
// are unique across the collection.
//
// UpdateAccounts is the whole-collection read-modify-write cycle: the store
// loads every record, hands the collection to mutate, and rewrites the
// collection in one atomic unit if and only if mutate returns nil. Each
// store serializes these cycles — two concurrent updates can never observe
// each other's intermediate state, which is what keeps a two-sided balance
// mutation free of lost updates.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	AccountByID(ctx context.Context, id string) (models.Account, error)
	AccountByNumber(ctx context.Context, number string) (models.Account, error)
	AccountByUserID(ctx context.Context, userID string) (models.Account, error)
	UpdateAccounts(ctx context.Context, mutate func(accounts []*models.Account) error) error
}
