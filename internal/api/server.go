package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Project-Sylos/Mend/internal/logging"
	"github.com/Project-Sylos/Mend/internal/storage"
	"github.com/Project-Sylos/Mend/internal/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Server represents the HTTP API server
type Server struct {
	router *chi.Mux
	store  *storage.Service
	config *types.APIConfig
	logger *zap.Logger
	http   *http.Server
}

// NewServer creates a new API server
func NewServer(store *storage.Service, config *types.APIConfig, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	router := NewRouter(store, config.Token, logger)

	s := &Server{
		router: router.SetupRoutes(),
		store:  store,
		config: config,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Addr returns the host:port the server listens on
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start serves until Stop is called. It returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting storage API server",
		zap.String("addr", s.Addr()),
		zap.String("api", fmt.Sprintf("http://%s/api/v1/", s.Addr())),
		zap.Bool("auth", s.config.Token != ""),
	)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// GetRouter returns the configured router
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// Stop shuts the HTTP server down and closes the store
func (s *Server) Stop(ctx context.Context) error {
	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
