package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/natthaphonr/account-service/internal/auth"
	"github.com/natthaphonr/account-service/internal/config"
	"github.com/natthaphonr/account-service/internal/handler"
	"github.com/natthaphonr/account-service/internal/middleware"
	"github.com/natthaphonr/account-service/internal/model"
	"github.com/natthaphonr/account-service/internal/payload"
	"github.com/natthaphonr/account-service/internal/repository"
	"github.com/natthaphonr/account-service/internal/usecase"
	"github.com/natthaphonr/account-service/internal/validate"
)

// Rate limit per client address; breaches get a generic message.
const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

// Server wires the HTTP surface of the account service.
type Server struct {
	cfg    *config.Config
	logger *zerolog.Logger
	router *chi.Mux
}

// New builds the router with all dependencies injected explicitly; there are
// no package-level singletons.
func New(cfg *config.Config, logger *zerolog.Logger, userRepo repository.UserRepository, m usecase.Mailer) *Server {
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.SessionSecret, cfg.Token.Issuer, cfg.Token.SessionExpiresIn)
	validator := validate.New()

	userUsecase := usecase.NewUserUsecase(userRepo)
	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth, m, cfg, logger)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, m, cfg, logger)

	userHandler := handler.NewUserHandler(userUsecase, validator, logger)
	authHandler := handler.NewAuthHandler(authUsecase, resetUsecase, validator, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httprate.Limit(
		rateLimitRequests,
		rateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(payload.MessageResponse{
				Message: "Too many requests from this IP, please try again later.",
			})
		}),
	))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Welcome to our REST API!"))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
		r.Get("/{id}/profilePic", userHandler.ProfilePic)
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Get("/verify/{token}", authHandler.VerifyEmail)
		r.Post("/login", authHandler.Login)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password/{token}", authHandler.ResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtAuth))

		r.Get("/protected", authHandler.Protected)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(model.RoleAdmin))
			r.Get("/admin", authHandler.Admin)
		})
	})

	return &Server{
		cfg:    cfg,
		logger: logger,
		router: r,
	}
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.HTTPAddr).Msg("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}
