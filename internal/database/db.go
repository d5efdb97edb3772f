package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/safar/jewelry-store/internal/config"
	"github.com/safar/jewelry-store/internal/database/memory"
	"github.com/safar/jewelry-store/internal/database/mongodb"
	"github.com/safar/jewelry-store/internal/database/postgres"
	"github.com/safar/jewelry-store/internal/models"
)

// Store is the process-wide database handle. Implementations must be safe for
// concurrent use; ids are returned as 24-char hex strings.
type Store interface {
	Insert(ctx context.Context, collection string, doc models.Document) (string, error)
	Find(ctx context.Context, collection string, filter *models.Filter, limit int) ([]models.Document, error)
	CollectionNames(ctx context.Context) ([]string, error)
	Name() string
	Close() error
}

// Indexer is implemented by stores that support secondary indexes.
type Indexer interface {
	EnsureIndex(ctx context.Context, idx models.Index) error
	DropIndex(ctx context.Context, idx models.Index) error
}

type Driver string

const (
	DriverMongo    Driver = "mongodb"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

// DriverFor picks a backend from the scheme of a connection URL.
func DriverFor(url string) (Driver, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return "", fmt.Errorf("%w: %q has no scheme", ErrUnsupportedDriver, Redact(url))
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedDriver, scheme)
}

func NewConnection(cfg *config.DatabaseConfig) (Store, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	driver, err := DriverFor(cfg.URL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	switch driver {
	case DriverMongo:
		s, err := mongodb.Open(ctx, mongodb.Options{
			URI:            cfg.URL,
			Database:       cfg.Name,
			MaxPoolSize:    uint64(cfg.MaxOpenConns),
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := postgres.Open(ctx, postgres.Options{
			URL:             cfg.URL,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return memory.New(cfg.Name), nil
	}
}

// Redact strips credentials from a connection URL before it is logged.
func Redact(url string) string {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return "***"
	}
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest = "***@" + rest[at+1:]
	}
	return scheme + "://" + rest
}
