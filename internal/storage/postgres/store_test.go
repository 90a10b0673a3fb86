package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valgraphics/identity-be/internal/models"
	"github.com/valgraphics/identity-be/internal/storage"
)

var accountCols = []string{"id", "username", "email", "mobile", "password_hash", "otp", "otp_expires_at", "created_at"}

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_CreateAccount(t *testing.T) {
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	account := models.Account{
		ID:           "id-1",
		Username:     "alice",
		Email:        "a@x.com",
		Mobile:       "+15550001",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    createdAt,
	}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(accountCols).
					AddRow("id-1", "alice", "a@x.com", "+15550001", "$2a$10$hash", nil, nil, createdAt)
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs("id-1", "alice", "a@x.com", "+15550001", "$2a$10$hash", createdAt).
					WillReturnRows(rows)
			},
		},
		{
			name: "unique violation maps to ErrAlreadyExists",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs("id-1", "alice", "a@x.com", "+15550001", "$2a$10$hash", createdAt).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: storage.ErrAlreadyExists,
		},
		{
			name: "database error passes through",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO accounts`).
					WithArgs("id-1", "alice", "a@x.com", "+15550001", "$2a$10$hash", createdAt).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.setupMock(mock)

			created, err := store.CreateAccount(context.Background(), account)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				require.NoError(t, err)
				assert.Equal(t, account.ID, created.ID)
				assert.Equal(t, account.Email, created.Email)
				assert.Empty(t, created.PendingOTP)
				assert.Nil(t, created.OTPExpiresAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_FindByEmail(t *testing.T) {
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	expiresAt := createdAt.Add(10 * time.Minute)

	t.Run("found with pending otp", func(t *testing.T) {
		store, mock := newMockStore(t)
		code := "123456"
		rows := pgxmock.NewRows(accountCols).
			AddRow("id-1", "alice", "a@x.com", "", "$2a$10$hash", &code, &expiresAt, createdAt)
		mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email`).
			WithArgs("a@x.com").
			WillReturnRows(rows)

		account, err := store.FindByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "123456", account.PendingOTP)
		require.NotNil(t, account.OTPExpiresAt)
		assert.True(t, account.OTPExpiresAt.Equal(expiresAt))
		assert.True(t, account.HasPendingOTP())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT .+ FROM accounts WHERE email`).
			WithArgs("nobody@x.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := store.FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_FindByID(t *testing.T) {
	store, mock := newMockStore(t)
	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(accountCols).
		AddRow("id-2", "bob", "b@x.com", "", "$2a$10$hash", nil, nil, createdAt)
	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE id`).
		WithArgs("id-2").
		WillReturnRows(rows)

	account, err := store.FindByID(context.Background(), "id-2")
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Username)
	assert.False(t, account.HasPendingOTP())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindByUsername(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE username`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SavePasswordReset(t *testing.T) {
	expiresAt := time.Date(2026, 9, 1, 10, 10, 0, 0, time.UTC)

	t.Run("updates the row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE accounts SET otp`).
			WithArgs("id-1", "123456", expiresAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := store.SavePasswordReset(context.Background(), "id-1", "123456", expiresAt)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE accounts SET otp`).
			WithArgs("ghost", "123456", expiresAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := store.SavePasswordReset(context.Background(), "ghost", "123456", expiresAt)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_UpdatePassword(t *testing.T) {
	t.Run("replaces hash and clears otp", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE accounts SET password_hash = \$2, otp = NULL, otp_expires_at = NULL`).
			WithArgs("id-1", "$2a$10$newhash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := store.UpdatePassword(context.Background(), "id-1", "$2a$10$newhash")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing account maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE accounts SET password_hash`).
			WithArgs("ghost", "$2a$10$newhash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := store.UpdatePassword(context.Background(), "ghost", "$2a$10$newhash")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_CountAccounts(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM accounts`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := store.CountAccounts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
