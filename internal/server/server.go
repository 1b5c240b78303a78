package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/houseofcharity/charity-be/internal/auth"
	"github.com/houseofcharity/charity-be/internal/config"
	"github.com/houseofcharity/charity-be/internal/http/handlers"
	"github.com/houseofcharity/charity-be/internal/logging"
	"github.com/houseofcharity/charity-be/internal/middleware"
	"github.com/houseofcharity/charity-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store, logger *logrus.Logger) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewHandler builds the full routing tree over store.
func NewHandler(cfg config.Config, store storage.Store, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	handlers.NewHealthHandler(time.Now(), store, logging.Component(logger, "health")).Register(mux)
	handlers.NewAuthHandler(store, tokens, handlers.AuthOptions{
		VerifyPassword: cfg.VerifyPassword,
		Limiter:        middleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst, logging.Component(logger, "ratelimit")),
	}, logging.Component(logger, "auth")).Register(mux)
	handlers.NewUserHandler(store, tokens, logging.Component(logger, "users")).Register(mux)
	handlers.NewDonationHandler(store, tokens, logging.Component(logger, "donations")).Register(mux)
	handlers.NewRequirementHandler(store, tokens, logging.Component(logger, "requirements")).Register(mux)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(logging.Component(logger, "http"), mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
