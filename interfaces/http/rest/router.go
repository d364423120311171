package rest

import (
	"net/http"

	"instaideas-backend/application/ports"
	"instaideas-backend/application/services"
	"instaideas-backend/infrastructure/config"
	"instaideas-backend/interfaces/http/rest/handlers"
	"instaideas-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	allocator *services.UploadAllocator
	pipeline  *services.IngestionPipeline
	ideas     ports.IdeaRepository
	cfg       *config.Config
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	allocator *services.UploadAllocator,
	pipeline *services.IngestionPipeline,
	ideas ports.IdeaRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		allocator: allocator,
		pipeline:  pipeline,
		ideas:     ideas,
		cfg:       cfg,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.instaideas.app"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api/v1", func(r chi.Router) {
		uploadHandler := handlers.NewUploadHandler(rt.allocator, rt.cfg.DefaultUserID, rt.logger)
		r.Post("/uploads", uploadHandler.RequestUploadURL)

		r.Route("/ideas", func(r chi.Router) {
			ideaHandler := handlers.NewIdeaHandler(rt.pipeline, rt.ideas, rt.cfg.DefaultUserID, rt.logger)
			r.Post("/ingest", ideaHandler.Ingest)
			r.Get("/{userID}/{ideaID}", ideaHandler.GetIdea)

			feedbackHandler := handlers.NewFeedbackHandler(rt.ideas, rt.logger)
			r.Post("/feedback", feedbackHandler.SubmitFeedback)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
