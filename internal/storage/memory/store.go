// Package memory provides an in-memory AccountStore used in tests and
// local development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/valgraphics/identity-be/internal/models"
	"github.com/valgraphics/identity-be/internal/storage"
)

// Ensure Store satisfies the storage.AccountStore interface at compile time.
var _ storage.AccountStore = (*Store)(nil)

// Store keeps accounts in a map guarded by a mutex.
type Store struct {
	mu       sync.Mutex
	accounts map[string]models.Account // keyed by ID
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]models.Account)}
}

// CreateAccount inserts the account, enforcing email and username uniqueness.
func (s *Store) CreateAccount(_ context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == account.Email || a.Username == account.Username {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}
	s.accounts[account.ID] = account
	return account, nil
}

// FindByID fetches an account by its ID.
func (s *Store) FindByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}
	return models.Account{}, storage.ErrNotFound
}

// FindByEmail fetches an account by email address.
func (s *Store) FindByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

// FindByUsername fetches an account by username.
func (s *Store) FindByUsername(_ context.Context, username string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

// SavePasswordReset stores the pending OTP and its expiry; last write wins.
func (s *Store) SavePasswordReset(_ context.Context, id, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.PendingOTP = code
	a.OTPExpiresAt = &expiresAt
	s.accounts[id] = a
	return nil
}

// UpdatePassword replaces the hash and clears the pending OTP together.
func (s *Store) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.PendingOTP = ""
	a.OTPExpiresAt = nil
	s.accounts[id] = a
	return nil
}

// CountAccounts returns the number of stored accounts.
func (s *Store) CountAccounts(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.accounts)), nil
}
