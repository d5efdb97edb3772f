// Package postgres stores documents as JSONB rows, one table per collection.
package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/safar/jewelry-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// collectionComment marks the tables this package owns so CollectionNames
// skips unrelated tables in the same schema.
const collectionComment = "document collection"

type Options struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Store struct {
	db     *sql.DB
	name   string
	tables sync.Map
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	db, err := sql.Open("postgres", opts.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := db.QueryRowContext(ctx, `SELECT current_database()`).Scan(&s.name); err != nil {
		db.Close()
		return nil, fmt.Errorf("read database name: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) ensureCollection(ctx context.Context, collection string) error {
	if _, ok := s.tables.Load(collection); ok {
		return nil
	}

	table := pq.QuoteIdentifier(collection)
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		COMMENT ON TABLE %s IS %s`, table, table, pq.QuoteLiteral(collectionComment))

	if _, err := s.db.ExecContext(ctx, stmt); err != nil && !isDuplicateObject(err) {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}

	s.tables.Store(collection, struct{}{})
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc models.Document) (string, error) {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return "", err
	}

	body := doc.Clone()
	delete(body, models.FieldID)
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := bson.NewObjectID().Hex()
	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, pq.QuoteIdentifier(collection))
	if _, err := s.db.ExecContext(ctx, query, id, string(payload)); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return id, nil
}

func (s *Store) Find(ctx context.Context, collection string, filter *models.Filter, limit int) ([]models.Document, error) {
	var (
		where []string
		args  []any
	)
	for _, c := range filter.Conditions() {
		value, err := json.Marshal(c.Value)
		if err != nil {
			return nil, fmt.Errorf("encode filter %s: %w", c.Field, err)
		}
		args = append(args, string(value))
		where = append(where, fmt.Sprintf("doc -> %s = $%d::jsonb", pq.QuoteLiteral(c.Field), len(args)))
	}

	query := fmt.Sprintf(`SELECT id, doc FROM %s`, pq.QuoteIdentifier(collection))
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return []models.Document{}, nil
		}
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan %s document: %w", collection, err)
		}

		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s document %s: %w", collection, id, err)
		}
		doc[models.FieldID] = id
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return docs, nil
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.relname
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE c.relkind = 'r'
		  AND n.nspname = current_schema()
		  AND obj_description(c.oid, 'pg_class') = $1
		ORDER BY c.relname`, collectionComment)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return names, nil
}

func (s *Store) EnsureIndex(ctx context.Context, idx models.Index) error {
	collection := idx.Kind.Collection()
	if err := s.ensureCollection(ctx, collection); err != nil {
		return err
	}

	stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s ((doc -> %s))`,
		pq.QuoteIdentifier(idx.Name()), pq.QuoteIdentifier(collection), pq.QuoteLiteral(idx.Field))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create index %s: %w", idx.Name(), err)
	}
	return nil
}

func (s *Store) DropIndex(ctx context.Context, idx models.Index) error {
	stmt := fmt.Sprintf(`DROP INDEX IF EXISTS %s`, pq.QuoteIdentifier(idx.Name()))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("drop index %s: %w", idx.Name(), err)
	}
	return nil
}

func decodeDocument(raw []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}

// isDuplicateObject covers concurrent CREATE TABLE IF NOT EXISTS races.
func isDuplicateObject(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code {
	case "23505", "42P07", "42710":
		return true
	}
	return false
}
