package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/safar/jewelry-store/internal/api"
	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		log.Printf("DATABASE_URL not set, running without a database")
	case err != nil:
		log.Printf("Connect to database %s: %v", database.Redact(cfg.Database.URL), err)
		db = nil
	default:
		defer db.Close()
		log.Printf("Connected to database %s (%s)", db.Name(), database.Redact(cfg.Database.URL))
	}

	m := metrics.New("jewelry_store", metrics.NewRegistry())

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(db, cfg.Database, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server stopped")
}
