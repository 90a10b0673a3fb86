package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/valgraphics/identity-be/internal/auth"
	"github.com/valgraphics/identity-be/internal/http/respond"
	"github.com/valgraphics/identity-be/internal/models/dto"
)

// AuthHandler owns the account lifecycle endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/forgot-password", h.handleForgotPassword)
	mux.HandleFunc("/verify-otp", h.handleVerifyOTP)
	mux.HandleFunc("/reset-password", h.handleResetPassword)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.service.Register(r.Context(), req.Username, req.Email, req.Mobile, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrConflict):
			respond.Error(w, http.StatusBadRequest, "User already exists")
		default:
			log.Printf("register: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	respond.OK(w, "User registered successfully")
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, account, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			respond.Error(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, auth.ErrInvalidCredentials):
			respond.Error(w, http.StatusBadRequest, "Invalid credentials")
		default:
			log.Printf("login: %v", err)
			respond.Error(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    account,
	})
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.respondResetError(w, "forgot password", err)
		return
	}

	respond.OK(w, "OTP sent to your email")
}

func (h *AuthHandler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.respondResetError(w, "verify otp", err)
		return
	}

	respond.OK(w, "OTP verified successfully")
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		h.respondResetError(w, "reset password", err)
		return
	}

	respond.OK(w, "Password reset successfully")
}

// respondResetError maps service errors shared by the reset flow endpoints.
func (h *AuthHandler) respondResetError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, auth.ErrInvalidOrExpiredOTP):
		respond.Error(w, http.StatusBadRequest, "Invalid or expired OTP")
	default:
		log.Printf("%s: %v", op, err)
		respond.Error(w, http.StatusInternalServerError, "Server error")
	}
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" {
		return errors.New("username and email are required")
	}
	return validatePassword(req.Password)
}

func validatePassword(password string) error {
	if len(password) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
