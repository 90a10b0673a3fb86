package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/valgraphics/identity-be/internal/auth"
	"github.com/valgraphics/identity-be/internal/http/respond"
	"github.com/valgraphics/identity-be/internal/middleware"
)

// ProfileHandler serves the authenticated account's own record.
type ProfileHandler struct {
	service *auth.Service
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(service *auth.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Register attaches the profile route behind the auth middleware.
func (h *ProfileHandler) Register(mux *http.ServeMux) {
	mux.Handle("/profile", middleware.RequireAuth(h.service, http.HandlerFunc(h.handle)))
}

func (h *ProfileHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "no token, authorization denied")
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("profile: %v", err)
		respond.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	// PasswordHash and OTP fields are json:"-" on the model.
	respond.JSON(w, http.StatusOK, account)
}
