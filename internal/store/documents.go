package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safar/jewelry-store/internal/database"
	"github.com/safar/jewelry-store/internal/models"
	"github.com/safar/jewelry-store/internal/schema"
)

const DefaultLimit = 50

var (
	ErrNotFound            = errors.New("document not found")
	ErrDatabaseUnavailable = fmt.Errorf("database not available: %w", database.ErrNotConfigured)
)

// PersistenceError reports a store that was unreachable or rejected an
// operation.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying later could succeed.
func (e *PersistenceError) Transient() bool {
	return database.IsTransient(e.Err)
}

// CreateDocument validates entity, stores it in its kind's collection and
// returns the id assigned by the store.
func CreateDocument(ctx context.Context, db database.Store, entity models.Entity) (string, error) {
	if err := schema.Validate(entity); err != nil {
		return "", err
	}

	collection := entity.Kind().Collection()
	if db == nil {
		return "", &PersistenceError{Op: "insert", Collection: collection, Err: ErrDatabaseUnavailable}
	}

	doc := entity.Document()
	now := time.Now().UTC()
	doc[models.FieldCreatedAt] = now
	doc[models.FieldUpdatedAt] = now

	id, err := db.Insert(ctx, collection, doc)
	if err != nil {
		return "", &PersistenceError{Op: "insert", Collection: collection, Err: err}
	}

	return id, nil
}

// GetDocuments returns at most limit documents of kind matching filter, in
// whatever order the store yields them. A non-positive limit means
// DefaultLimit.
func GetDocuments(ctx context.Context, db database.Store, kind models.Kind, filter *models.Filter, limit int) ([]models.Document, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("get documents: unknown kind %v", kind)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	collection := kind.Collection()
	if db == nil {
		return nil, &PersistenceError{Op: "find", Collection: collection, Err: ErrDatabaseUnavailable}
	}

	docs, err := db.Find(ctx, collection, filter, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "find", Collection: collection, Err: err}
	}

	if len(docs) > limit {
		docs = docs[:limit]
	}
	if docs == nil {
		docs = []models.Document{}
	}

	return docs, nil
}
