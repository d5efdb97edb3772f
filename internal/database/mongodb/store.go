// Package mongodb stores documents in MongoDB collections using
// mongo-go-driver v2. Ids are native ObjectIDs and are converted to hex
// strings on the way out.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/safar/jewelry-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type Options struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}
	if opts.ConnectTimeout > 0 {
		clientOpts.SetServerSelectionTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(opts.Database)}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Name() string {
	return s.db.Name()
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) Insert(ctx context.Context, collection string, doc models.Document) (string, error) {
	id := bson.NewObjectID()

	m := make(bson.M, len(doc)+1)
	for k, v := range doc {
		m[k] = v
	}
	m[models.FieldID] = id

	if _, err := s.col(collection).InsertOne(ctx, m); err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id.Hex(), nil
}

func (s *Store) Find(ctx context.Context, collection string, filter *models.Filter, limit int) ([]models.Document, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.col(collection).Find(ctx, filterDoc(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		docs = append(docs, toDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", collection, err)
	}

	return docs, nil
}

func (s *Store) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

func (s *Store) EnsureIndex(ctx context.Context, idx models.Index) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: idx.Field, Value: 1}},
		Options: options.Index().SetName(idx.Name()),
	}
	if _, err := s.col(idx.Kind.Collection()).Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create index %s: %w", idx.Name(), err)
	}
	return nil
}

func (s *Store) DropIndex(ctx context.Context, idx models.Index) error {
	cmd := bson.D{
		{Key: "dropIndexes", Value: idx.Kind.Collection()},
		{Key: "index", Value: idx.Name()},
	}
	if err := s.db.RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("drop index %s: %w", idx.Name(), err)
	}
	return nil
}

func filterDoc(filter *models.Filter) bson.D {
	d := bson.D{}
	for _, c := range filter.Conditions() {
		d = append(d, bson.E{Key: c.Field, Value: c.Value})
	}
	return d
}

func toDocument(raw bson.M) models.Document {
	doc := make(models.Document, len(raw))
	for k, v := range raw {
		doc[k] = normalize(v)
	}
	return doc
}

// normalize converts driver types into plain JSON-friendly values.
func normalize(v any) any {
	switch val := v.(type) {
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time().UTC()
	case bson.M:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
