package jsonfile

import (
	"context"
	"sync"

	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage"
)

var _ storage.UserStore = (*UserStore)(nil)

type userCollection struct {
	Users []models.User `json:"users"`
}

// UserStore keeps the users collection in a single JSON file.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore creates a store backed by the JSON file at path. A missing
// file is treated as an empty collection.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// CreateUser appends a user and rewrites the collection. Returns
// storage.ErrAlreadyExists when the id, username, or email is taken.
func (s *UserStore) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col userCollection
	if err := readCollection(s.path, &col); err != nil {
		return models.User{}, err
	}
	for _, u := range col.Users {
		if u.ID == user.ID || u.Username == user.Username || u.Email == user.Email {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	col.Users = append(col.Users, user)
	if err := writeCollection(s.path, col); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UserByID returns the user with the given id.
func (s *UserStore) UserByID(_ context.Context, id string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.ID == id })
}

// UserByUsername returns the user with the given username.
func (s *UserStore) UserByUsername(_ context.Context, username string) (models.User, error) {
	return s.find(func(u models.User) bool { return u.Username == username })
}

func (s *UserStore) find(match func(models.User) bool) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var col userCollection
	if err := readCollection(s.path, &col); err != nil {
		return models.User{}, err
	}
	for _, u := range col.Users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}
