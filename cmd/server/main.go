package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/man00154/networktroubleshootchatbot/internal/api"
	"github.com/man00154/networktroubleshootchatbot/internal/config"
	"github.com/man00154/networktroubleshootchatbot/internal/core"
	"github.com/man00154/networktroubleshootchatbot/internal/kb"
	"github.com/man00154/networktroubleshootchatbot/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for knowledge-base ingestion
	ingestFile := flag.String("ingest", "", "Ingest knowledge-base entries from a markdown table file and exit")
	flag.Parse()

	// Initialize knowledge-base store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Handle knowledge-base ingestion if the flag is set
	if *ingestFile != "" {
		log.Println("Starting knowledge-base ingestion...")
		numIngested, err := dbStore.IngestFromFile(*ingestFile)
		if err != nil {
			log.Fatalf("Knowledge-base ingestion failed: %v", err)
		}
		log.Printf("Ingestion complete. Stored %d entries. Exiting.", numIngested)
		os.Exit(0)
	}

	// Seed built-in guides on first run, then load the immutable KB
	if err := dbStore.SeedDefaultEntries(kb.DefaultEntries()); err != nil {
		log.Fatalf("Failed to seed knowledge base: %v", err)
	}
	entries, err := dbStore.GetAllEntries()
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	log.Printf("Knowledge base loaded with %d entries", len(entries))
	retriever := kb.NewKeywordRetriever(entries)

	// Initialize streaming Gemini client
	llmClient, err := core.NewGeminiClient(context.Background(), config.AppConfig.GeminiAPIKey, config.AppConfig.ModelName)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer llmClient.Close()

	// Initialize Chat service
	chatService := core.NewChatService(retriever, llmClient)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(chatService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // streamed replies can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
