// Package memory is an in-process document store for local development and
// tests. Documents are stored in their JSON form, so reads see the same value
// types a networked store would return.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/safar/jewelry-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Store struct {
	name string

	mu          sync.RWMutex
	collections map[string][]models.Document
	indexes     map[string]models.Index
}

func New(name string) *Store {
	return &Store{
		name:        name,
		collections: make(map[string][]models.Document),
		indexes:     make(map[string]models.Index),
	}
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) Insert(ctx context.Context, collection string, doc models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body := doc.Clone()
	delete(body, models.FieldID)

	stored, err := roundTrip(body)
	if err != nil {
		return "", fmt.Errorf("encode %s document: %w", collection, err)
	}

	id := bson.NewObjectID().Hex()
	stored[models.FieldID] = id

	s.mu.Lock()
	s.collections[collection] = append(s.collections[collection], stored)
	s.mu.Unlock()

	return id, nil
}

func (s *Store) Find(ctx context.Context, collection string, filter *models.Filter, limit int) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want, err := roundTrip(filter.Map())
	if err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []models.Document{}
	for _, doc := range s.collections[collection] {
		if limit > 0 && len(docs) >= limit {
			break
		}
		if !matches(doc, want) {
			continue
		}
		copied, err := roundTrip(doc)
		if err != nil {
			return nil, fmt.Errorf("copy %s document: %w", collection, err)
		}
		docs = append(docs, copied)
	}
	return docs, nil
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// EnsureIndex only records the index; scans are always linear.
func (s *Store) EnsureIndex(ctx context.Context, idx models.Index) error {
	s.mu.Lock()
	s.indexes[idx.Name()] = idx
	s.mu.Unlock()
	return nil
}

func (s *Store) DropIndex(ctx context.Context, idx models.Index) error {
	s.mu.Lock()
	delete(s.indexes, idx.Name())
	s.mu.Unlock()
	return nil
}

// Indexes returns the names of recorded indexes.
func (s *Store) Indexes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.indexes))
	for name := range s.indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func matches(doc, want models.Document) bool {
	for field, value := range want {
		got, ok := doc[field]
		if !ok || !reflect.DeepEqual(got, value) {
			return false
		}
	}
	return true
}

func roundTrip(v any) (models.Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = models.Document{}
	}
	return doc, nil
}
