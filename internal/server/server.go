package server

import (
	"context"
	"net/http"
	"time"

	"github.com/valgraphics/identity-be/internal/auth"
	"github.com/valgraphics/identity-be/internal/config"
	"github.com/valgraphics/identity-be/internal/http/handlers"
	"github.com/valgraphics/identity-be/internal/middleware"
	"github.com/valgraphics/identity-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.AccountStore, notifier auth.Notifier) *Server {
	hasher := auth.NewHasher(cfg.BcryptCost)
	otp := auth.NewOTPIssuer(cfg.OTPTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	service := auth.NewService(store, hasher, otp, tokens, notifier)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewAuthHandler(service).Register(mux)
	handlers.NewProfileHandler(service).Register(mux)

	handler := middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
