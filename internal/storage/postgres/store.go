// Package postgres implements the storage contracts on a Postgres pool. The
// whole-collection update cycle maps to a transaction that locks the
// accounts collection and rewrites the mutated rows before commit.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledger-be/internal/models"
	"github.com/ledgerline/ledger-be/internal/storage"
)

// Ensure Store satisfies both contracts at compile time.
var (
	_ storage.UserStore    = (*Store)(nil)
	_ storage.AccountStore = (*Store)(nil)
)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users and accounts.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			account_number TEXT UNIQUE NOT NULL,
			balance NUMERIC(18,2) NOT NULL DEFAULT 0,
			transfer_password TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS accounts_user_id_idx ON accounts (user_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := s.pool.Exec(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return user, nil
}

// UserByID fetches a user by id.
func (s *Store) UserByID(ctx context.Context, id string) (models.User, error) {
	return s.queryUser(ctx, `WHERE id = $1`, id)
}

// UserByUsername fetches a user by username.
func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	return s.queryUser(ctx, `WHERE username = $1`, username)
}

func (s *Store) queryUser(ctx context.Context, where string, arg any) (models.User, error) {
	query := `SELECT id, username, email, password_hash, created_at FROM users ` + where + ` LIMIT 1;`
	row := s.pool.QueryRow(ctx, query, arg)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
		INSERT INTO accounts (id, user_id, account_number, balance, transfer_password)
		VALUES ($1, $2, $3, $4::numeric, $5);
	`
	_, err := s.pool.Exec(ctx, query,
		account.ID, account.UserID, account.AccountNumber, account.Balance.String(), account.TransferPassword)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Account{}, storage.ErrAlreadyExists
		}
		return models.Account{}, err
	}
	return account, nil
}

// AccountByID fetches an account by id.
func (s *Store) AccountByID(ctx context.Context, id string) (models.Account, error) {
	return s.queryAccount(ctx, `WHERE id = $1`, id)
}

// AccountByNumber fetches an account by account number.
func (s *Store) AccountByNumber(ctx context.Context, number string) (models.Account, error) {
	return s.queryAccount(ctx, `WHERE account_number = $1`, number)
}

// AccountByUserID fetches the account owned by a user.
func (s *Store) AccountByUserID(ctx context.Context, userID string) (models.Account, error) {
	return s.queryAccount(ctx, `WHERE user_id = $1`, userID)
}

func (s *Store) queryAccount(ctx context.Context, where string, arg any) (models.Account, error) {
	query := `SELECT id, user_id, account_number, balance::text, transfer_password FROM accounts ` + where + ` LIMIT 1;`
	row := s.pool.QueryRow(ctx, query, arg)
	return scanAccount(row)
}

// UpdateAccounts locks the whole accounts collection inside a transaction,
// hands it to mutate, and rewrites every row before commit. A non-nil error
// from mutate rolls the transaction back with nothing persisted.
func (s *Store) UpdateAccounts(ctx context.Context, mutate func(accounts []*models.Account) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id, user_id, account_number, balance::text, transfer_password FROM accounts ORDER BY id FOR UPDATE;`)
	if err != nil {
		return fmt.Errorf("lock accounts: %w", err)
	}
	var accounts []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			rows.Close()
			return err
		}
		accounts = append(accounts, &acc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if err := mutate(accounts); err != nil {
		return err
	}

	for _, acc := range accounts {
		_, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = $2::numeric, transfer_password = $3 WHERE id = $1;`,
			acc.ID, acc.Balance.String(), acc.TransferPassword)
		if err != nil {
			return fmt.Errorf("rewrite account %s: %w", acc.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var (
		acc     models.Account
		balance string
	)
	if err := row.Scan(&acc.ID, &acc.UserID, &acc.AccountNumber, &balance, &acc.TransferPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	dec, err := decimal.NewFromString(balance)
	if err != nil {
		return models.Account{}, fmt.Errorf("parse balance %q: %w", balance, err)
	}
	acc.Balance = dec
	return acc, nil
}
