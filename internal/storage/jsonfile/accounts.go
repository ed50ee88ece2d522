package jsonfile

import (
	"context"
	"sync"

	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage"
)

var _ storage.AccountStore = (*AccountStore)(nil)

type accountCollection struct {
	Accounts []models.Account `json:"accounts"`
}

// AccountStore keeps the accounts collection in a single JSON file.
type AccountStore struct {
	mu   sync.Mutex
	path string
}

// NewAccountStore creates a store backed by the JSON file at path. A
// missing file is treated as an empty collection.
func NewAccountStore(path string) *AccountStore {
	return &AccountStore{path: path}
}

// CreateAccount appends an account and rewrites the collection. Returns
// storage.ErrAlreadyExists when the id or account number is taken.
func (s *AccountStore) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col accountCollection
	if err := readCollection(s.path, &col); err != nil {
		return models.Account{}, err
	}
	for _, a := range col.Accounts {
		if a.ID == account.ID || a.AccountNumber == account.AccountNumber {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}
	col.Accounts = append(col.Accounts, account)
	if err := writeCollection(s.path, col); err != nil {
		return models.Account{}, err
	}
	return account, nil
}

// AccountByID returns the account with the given id.
func (s *AccountStore) AccountByID(_ context.Context, id string) (models.Account, error) {
	return s.find(func(a models.Account) bool { return a.ID == id })
}

// AccountByNumber returns the account with the given account number.
func (s *AccountStore) AccountByNumber(_ context.Context, number string) (models.Account, error) {
	return s.find(func(a models.Account) bool { return a.AccountNumber == number })
}

// AccountByUserID returns the account owned by the given user.
func (s *AccountStore) AccountByUserID(_ context.Context, userID string) (models.Account, error) {
	return s.find(func(a models.Account) bool { return a.UserID == userID })
}

// UpdateAccounts runs one serialized read-modify-write cycle: the whole
// collection is loaded, handed to mutate, and rewritten in a single atomic
// file replace only if mutate returns nil. A non-nil error leaves the file
// untouched.
func (s *AccountStore) UpdateAccounts(_ context.Context, mutate func(accounts []*models.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col accountCollection
	if err := readCollection(s.path, &col); err != nil {
		return err
	}
	refs := make([]*models.Account, len(col.Accounts))
	for i := range col.Accounts {
		refs[i] = &col.Accounts[i]
	}
	if err := mutate(refs); err != nil {
		return err
	}
	return writeCollection(s.path, col)
}

func (s *AccountStore) find(match func(models.Account) bool) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col accountCollection
	if err := readCollection(s.path, &col); err != nil {
		return models.Account{}, err
	}
	for _, a := range col.Accounts {
		if match(a) {
			return a, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}
