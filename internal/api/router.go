package api

import (
	"time"

	"github.com/Project-Sylos/Mend/internal/api/handlers"
	apimiddleware "github.com/Project-Sylos/Mend/internal/api/middleware"
	"github.com/Project-Sylos/Mend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Router represents the HTTP API router
type Router struct {
	store  *storage.Service
	token  string
	logger *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(store *storage.Service, token string, logger *zap.Logger) *Router {
	return &Router{store: store, token: token, logger: logger}
}

// SetupRoutes configures all API routes using modular handlers
func (r *Router) SetupRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Standard middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(r.store)
	itemHandler := handlers.NewItemHandler(r.store)
	systemHandler := handlers.NewSystemHandler(r.store)

	// Health check
	router.Get("/health", healthHandler.HealthCheck)

	// API routes
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.BearerAuth(r.token))

		api.Route("/items", func(items chi.Router) {
			items.Get("/stat", itemHandler.Stat)
			items.Head("/stat", itemHandler.Exists)
			items.Get("/tree", itemHandler.Tree)
			items.Get("/children", itemHandler.ListChildren)
			items.Post("/move", itemHandler.Move)
			items.Post("/folder", itemHandler.CreateFolder)
			items.Post("/file", itemHandler.UploadFile)
			items.Delete("/", itemHandler.Delete)
		})

		api.Get("/nodes/{id}", itemHandler.GetByID)

		// System operations
		api.Post("/reset", systemHandler.Reset)
		api.Get("/config", systemHandler.GetConfig)
		api.Get("/stats", systemHandler.GetStats)
	})

	return router
}
