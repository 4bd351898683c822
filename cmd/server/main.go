package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"data-agent-chat/internal/agent"
	"data-agent-chat/internal/api"
	"data-agent-chat/internal/config"
	"data-agent-chat/internal/db"
	"data-agent-chat/internal/endpoint"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrated successfully")

	resolver := newResolver(cfg.Endpoints)
	log.Printf("Endpoints resolved chat=%s recommend=%s",
		resolver.Chat(agent.Fallback()), resolver.Recommendation())
	log.Printf("Agent catalog loaded count=%d fallback=%s", len(agent.List()), agent.FallbackID)

	router := api.NewRouter(database, resolver, cfg.StaticDir)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		close(done)
	}()

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Static files served from: %s", cfg.StaticDir)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	<-done
	log.Println("Server stopped gracefully")
}

// newResolver builds the endpoint resolver from settings. Routes for agents
// missing from the catalog are ignored.
func newResolver(cfg config.EndpointsConfig) *endpoint.Resolver {
	opts := []endpoint.Option{
		endpoint.WithChatEndpoint(cfg.Chat),
		endpoint.WithRecommendationEndpoint(cfg.Recommend),
	}
	for id, path := range cfg.Agents {
		if _, ok := agent.Lookup(agent.ID(id)); !ok {
			log.Printf("Warning: ignoring endpoint route for unknown agent agent_id=%s", id)
			continue
		}
		opts = append(opts, endpoint.WithRoute(agent.ID(id), path))
	}
	return endpoint.NewResolver(opts...)
}
