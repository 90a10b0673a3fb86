package storage

import (
	"context"
	"errors"
	"time"

	"github.com/valgraphics/identity-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict on email or username.
var ErrAlreadyExists = errors.New("record already exists")

// AccountStore captures persistence operations needed by the auth service.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	FindByID(ctx context.Context, id string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByUsername(ctx context.Context, username string) (models.Account, error)
	// SavePasswordReset stores a pending OTP and its expiry on the account.
	// A second call before expiry overwrites the previous code.
	SavePasswordReset(ctx context.Context, id, code string, expiresAt time.Time) error
	// UpdatePassword replaces the password hash and clears any pending OTP
	// in the same statement.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	CountAccounts(ctx context.Context) (int64, error)
}
