// Package httpapi is the HTTP boundary: routing, cookie handling, request
// parsing and the middlewares that attach request metadata and sessions.
// Tokens travel as HttpOnly, SameSite=Strict cookies named "token" and
// "refreshToken".
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/config"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
	"github.com/avpetrov/authcore/internal/server/services"
)

// AuthUseCases is the slice of the auth service the handlers need.
type AuthUseCases interface {
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Signup(ctx context.Context, params services.SignupParams) error
	RefreshSession(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// SessionDecoder verifies an access token into a session, or nil.
type SessionDecoder interface {
	DecodeSession(ctx context.Context, token string) *auth.Session
}

type Server struct {
	cfg    *config.Config
	logger logging.Logger
	authUC AuthUseCases
	codec  SessionDecoder
	users  users.Repository
	srv    *http.Server
}

func NewServer(cfg *config.Config, logger logging.Logger, authUC AuthUseCases, codec SessionDecoder, repo users.Repository) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		authUC: authUC,
		codec:  codec,
		users:  repo,
	}
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Credentialed CORS: cookies only flow for explicitly listed origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(s.attachRequestMeta)
	r.Use(s.attachSession)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.With(s.requireAuth).Post("/refresh", s.handleRefresh)
		r.With(s.requireAuth).Post("/logout", s.handleLogout)
	})

	return r
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.cfg.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
