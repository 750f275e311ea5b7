package main

import (
	"chatlead-backend/internal/api"
	"chatlead-backend/internal/config"
	"chatlead-backend/internal/handlers"
	"chatlead-backend/internal/integrations/gemini"
	"chatlead-backend/internal/models"
	"chatlead-backend/internal/services"
	"chatlead-backend/internal/store"
	"chatlead-backend/internal/store/postgres"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting ChatLead Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize the Lead Store.
	// A missing or unreachable database is a degraded mode, not a fatal: the
	// service keeps answering with saved=false, matching the store contract.
	var leadStore store.LeadStore = store.NewNoopStore()
	var dbpool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err = pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err == nil {
			err = dbpool.Ping(dbCtx)
		}
		if err != nil {
			log.Printf("ERROR: Unable to connect to database, continuing without persistence: %v", err)
			dbpool = nil
		} else {
			defer dbpool.Close()
			leadStore = postgres.NewPostgresStore(dbpool)
			log.Println("Postgres lead store initialized.")
		}
	} else {
		log.Println("DATABASE_URL not set; persistence disabled.")
	}

	// 3. Initialize the Gemini client. An empty API key is handled inside
	// the client, which then answers every Ask with the fixed sentinel.
	geminiClient := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	log.Printf("Gemini client initialized (configured: %t).", geminiClient.Configured())

	// --- Initialize Services ---
	collectService := services.NewCollectService(leadStore, geminiClient, services.CollectConfig{
		MatchLimit: cfg.PropertyMatchLimit,
		Prompt: services.PromptConfig{
			Intro: cfg.PromptIntro,
			Style: cfg.PromptStyle,
		},
	})
	log.Println("CollectService initialized.")

	// --- Initialize Handlers ---
	collectHandler := handlers.NewCollectHandler(collectService)
	healthHandler := handlers.NewHealthHandler(models.HealthEnvironment{
		StoreConfigured:  dbpool != nil,
		GeminiConfigured: geminiClient.Configured(),
		APIKeyConfigured: cfg.CollectAPIKey != "",
	})
	log.Println("Handlers initialized.")

	// 4. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		CollectHandler: collectHandler,
		HealthHandler:  healthHandler,
		Config:         cfg,
	})
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	// Create a deadline context for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
