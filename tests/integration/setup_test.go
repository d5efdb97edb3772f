package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/safar/jewelry-store/internal/api"
	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/metrics"
	"github.com/safar/jewelry-store/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (database.Store, config.DatabaseConfig, func()) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := config.DatabaseConfig{
		URL:             fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port()),
		Name:            "testdb",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		ConnectTimeout:  10 * time.Second,
	}

	db, err := database.NewConnection(&cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := ensureIndexes(ctx, db); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cfg, cleanup
}

func ensureIndexes(ctx context.Context, db database.Store) error {
	indexer, ok := db.(database.Indexer)
	if !ok {
		return fmt.Errorf("database %s does not support indexes", db.Name())
	}
	for _, idx := range models.Indexes {
		if err := indexer.EnsureIndex(ctx, idx); err != nil {
			return fmt.Errorf("ensure index %s: %w", idx.Name(), err)
		}
	}
	return nil
}

func setupTestServer(t *testing.T) (*httptest.Server, database.Store, func()) {
	db, cfg, cleanup := setupTestDB(t)

	srv := httptest.NewServer(api.NewRouter(db, cfg, metrics.New("integration", metrics.NewRegistry())))

	return srv, db, func() {
		srv.Close()
		cleanup()
	}
}
