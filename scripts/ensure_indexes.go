package main

import (
	"context"
	"log"
	"os"
	"slices"
	"time"

	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/ensure_indexes.go [up|down]")
	}

	direction := os.Args[1]
	if direction != "up" && direction != "down" {
		log.Fatal("Direction must be 'up' or 'down'")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("Connect to database: %v", err)
	}
	defer db.Close()

	indexer, ok := db.(database.Indexer)
	if !ok {
		log.Fatalf("Database %s does not support indexes", db.Name())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	indexes := slices.Clone(models.Indexes)
	if direction == "down" {
		slices.Reverse(indexes)
	}

	for _, idx := range indexes {
		log.Printf("%s index: %s", direction, idx.Name())
		if direction == "up" {
			err = indexer.EnsureIndex(ctx, idx)
		} else {
			err = indexer.DropIndex(ctx, idx)
		}
		if err != nil {
			log.Fatalf("Index %s: %v", idx.Name(), err)
		}
	}

	log.Printf("Successfully ran %d index change(s) %s", len(indexes), direction)
}
