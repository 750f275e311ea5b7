package api

import (
	"chatlead-backend/internal/config"
	"chatlead-backend/internal/handlers"
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	CollectHandler *handlers.CollectHandler
	HealthHandler  *handlers.HealthHandler
	Config         *config.Config
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)                 // Inject request ID into context
	r.Use(middleware.RealIP)                    // Use X-Forwarded-For or X-Real-IP
	r.Use(middleware.Logger)                    // Log requests
	r.Use(middleware.Recoverer)                 // Recover from panics, return 500
	r.Use(middleware.Timeout(60 * time.Second)) // Set a request timeout

	// --- CORS Configuration ---
	// The chat widget is embedded on arbitrary sites, so origins stay open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "x-api-key"},
		MaxAge:         300, // Maximum value not ignored by any of major browsers
	}))

	// --- Public Routes (No API Key Required) ---
	if deps.HealthHandler != nil {
		r.Get("/", deps.HealthHandler.HandleRoot)
		r.Get("/health", deps.HealthHandler.HandleHealth)
		r.Get("/api/health", deps.HealthHandler.HandleHealth)
	} else {
		log.Println("WARN: HealthHandler dependency is nil, skipping health routes.")
	}

	// --- Gated Collect Route ---
	r.Route("/api", func(r chi.Router) {
		r.Use(APIKeyAuthMiddleware(deps.Config.CollectAPIKey))

		if deps.CollectHandler == nil {
			panic("CollectHandler dependency is nil in router setup")
		}
		r.Post("/collect-chat-data", deps.CollectHandler.HandleCollect)
	})

	return r
}
