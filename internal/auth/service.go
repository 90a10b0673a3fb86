// Package auth implements the credential and session lifecycle: password
// hashing, OTP-based password reset, and session token issuance.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valgraphics/identity-be/internal/models"
	"github.com/valgraphics/identity-be/internal/storage"
)

// Notifier delivers out-of-band messages to an account's email address.
// Delivery failure is never fatal to the operation that triggered it.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service orchestrates the account lifecycle over the store, hasher, OTP
// issuer, token manager, and notifier.
type Service struct {
	store    storage.AccountStore
	hasher   *Hasher
	otp      *OTPIssuer
	tokens   *TokenManager
	notifier Notifier
	now      func() time.Time
}

// NewService wires the orchestrator with its collaborators.
func NewService(store storage.AccountStore, hasher *Hasher, otp *OTPIssuer, tokens *TokenManager, notifier Notifier) *Service {
	return &Service{
		store:    store,
		hasher:   hasher,
		otp:      otp,
		tokens:   tokens,
		notifier: notifier,
		now:      time.Now,
	}
}

// Register creates an account with a hashed password. Duplicate email or
// username yields ErrConflict; the store's unique indexes make the check
// atomic under concurrent registrations.
func (s *Service) Register(ctx context.Context, username, email, mobile, password string) (models.Account, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	mobile = strings.TrimSpace(mobile)

	// Friendly pre-checks; the store's unique indexes are the real guard
	// against a concurrent insert slipping between them.
	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return models.Account{}, ErrConflict
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Account{}, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return models.Account{}, ErrConflict
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Account{}, fmt.Errorf("check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	account := models.Account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		Mobile:       mobile,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.store.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Account{}, ErrConflict
		}
		return models.Account{}, fmt.Errorf("create account: %w", err)
	}
	return created, nil
}

// Login verifies the password for the account registered under email and
// issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Account, error) {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", models.Account{}, err
	}
	if !s.hasher.Verify(password, account.PasswordHash) {
		return "", models.Account{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return "", models.Account{}, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// ForgotPassword stores a fresh OTP on the account and emails it. A repeat
// call before expiry overwrites the previous code; last write wins.
// Delivery failure is logged, not propagated: the stored code stays usable
// and the caller may retry the request.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, expiresAt, err := s.otp.Issue()
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}
	if err := s.store.SavePasswordReset(ctx, account.ID, code, expiresAt); err != nil {
		return fmt.Errorf("save password reset: %w", err)
	}

	body := fmt.Sprintf("Hello,\n\nYou requested to reset your password.\n\n"+
		"Your OTP is: %s\nIt expires in 10 minutes.\n\n"+
		"If you didn't request this, please ignore this email.\n\n"+
		"Regards,\nVAL Graphics Team", code)
	if err := s.notifier.Send(ctx, account.Email, "Your VAL Graphics Password Reset OTP", body); err != nil {
		log.Printf("forgot password: notify %s failed: %v", account.Email, err)
	}
	return nil
}

// VerifyOTP checks the supplied code without consuming it; the code stays
// valid for a subsequent ResetPassword until it expires. Mismatch and
// expiry collapse into ErrInvalidOrExpiredOTP outwardly.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.checkOTP(account, code)
}

// ResetPassword replaces the password after checking the OTP, clearing the
// code in the same store update.
func (s *Service) ResetPassword(ctx context.Context, email, code, password string) error {
	account, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.checkOTP(account, code); err != nil {
		return err
	}
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, account.ID, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to an account ID. Missing tokens
// yield ErrUnauthenticated; everything else wrong with the token yields
// ErrInvalidToken.
func (s *Service) Authenticate(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrUnauthenticated
	}
	return s.tokens.Verify(token)
}

// GetAccount loads the account for an authenticated request.
func (s *Service) GetAccount(ctx context.Context, id string) (models.Account, error) {
	account, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (models.Account, error) {
	account, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Account{}, ErrNotFound
		}
		return models.Account{}, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

func (s *Service) checkOTP(account models.Account, code string) error {
	if !account.HasPendingOTP() {
		return ErrInvalidOrExpiredOTP
	}
	if ValidateOTP(account.PendingOTP, *account.OTPExpiresAt, code, s.now()) != OTPValid {
		return ErrInvalidOrExpiredOTP
	}
	return nil
}
