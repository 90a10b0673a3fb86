package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valgraphics/identity-be/internal/models"
	"github.com/valgraphics/identity-be/internal/storage"
)

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Ensure Store satisfies the storage.AccountStore interface at compile time.
var _ storage.AccountStore = (*Store)(nil)

// Store provides Postgres-backed persistence for accounts.
type Store struct {
	db DB
}

// NewStore wraps an existing connection. Used by tests with a mock pool.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// NewAccountStore connects to databaseURL and runs migrations.
func NewAccountStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{db: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			mobile TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			otp TEXT,
			otp_expires_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_unique_idx ON accounts (email);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS accounts_username_unique_idx ON accounts (username);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const accountColumns = `id, username, email, mobile, password_hash, otp, otp_expires_at, created_at`

// CreateAccount inserts a new account row. A unique violation on email or
// username yields storage.ErrAlreadyExists.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
		INSERT INTO accounts (id, username, email, mobile, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns + `;`
	row := s.db.QueryRow(ctx, query,
		account.ID, account.Username, account.Email, account.Mobile,
		account.PasswordHash, account.CreatedAt)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Account{}, storage.ErrAlreadyExists
		}
		return models.Account{}, err
	}
	return created, nil
}

// FindByID fetches an account by its ID.
func (s *Store) FindByID(ctx context.Context, id string) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1;`
	return scanAccount(s.db.QueryRow(ctx, query, id))
}

// FindByEmail fetches an account by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1;`
	return scanAccount(s.db.QueryRow(ctx, query, email))
}

// FindByUsername fetches an account by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1;`
	return scanAccount(s.db.QueryRow(ctx, query, username))
}

// SavePasswordReset stores the pending OTP and its expiry. Overwrites any
// previous code; last write wins.
func (s *Store) SavePasswordReset(ctx context.Context, id, code string, expiresAt time.Time) error {
	const query = `UPDATE accounts SET otp = $2, otp_expires_at = $3 WHERE id = $1;`
	tag, err := s.db.Exec(ctx, query, id, code, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the password hash and clears the pending OTP
// atomically.
func (s *Store) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE accounts SET password_hash = $2, otp = NULL, otp_expires_at = NULL WHERE id = $1;`
	tag, err := s.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CountAccounts returns the number of registered accounts.
func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM accounts;`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	var otp *string
	var otpExpiresAt *time.Time
	if err := row.Scan(&account.ID, &account.Username, &account.Email, &account.Mobile,
		&account.PasswordHash, &otp, &otpExpiresAt, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	if otp != nil {
		account.PendingOTP = *otp
	}
	account.OTPExpiresAt = otpExpiresAt
	return account, nil
}
