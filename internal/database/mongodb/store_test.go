package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/safar/jewelry-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{24}$`)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForListeningPort("27017/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("MongoDB container not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	s, err := Open(ctx, Options{
		URI:            fmt.Sprintf("mongodb://%s:%s", host, port.Port()),
		Database:       "jewelry_store_test",
		ConnectTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close()
	})

	return s
}

func TestInsertAndFind(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, "jewelryproduct", models.Document{
		"title":       "Raven Ring",
		"price":       29.99,
		"category":    "rings",
		"images":      []string{},
		"featured":    false,
		"description": (*string)(nil),
		"created_at":  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Regexp(t, hexID, id)

	_, err = s.Insert(ctx, "jewelryproduct", models.Document{"title": "Bat Pendant", "category": "necklaces", "featured": true})
	require.NoError(t, err)

	docs, err := s.Find(ctx, "jewelryproduct", models.NewFilter().Eq("category", "rings"), 50)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, id, doc.ID())
	assert.Equal(t, "Raven Ring", doc["title"])
	assert.Equal(t, 29.99, doc["price"])
	assert.Equal(t, []any{}, doc["images"])
	assert.Nil(t, doc["description"])
	assert.IsType(t, time.Time{}, doc["created_at"])
}

func TestFindLimitAndEmptyFilter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Insert(ctx, "jewelryproduct", models.Document{"title": fmt.Sprintf("Ring %d", i), "category": "rings", "featured": i%2 == 0})
		require.NoError(t, err)
	}

	docs, err := s.Find(ctx, "jewelryproduct", models.NewFilter().Eq("category", "rings"), 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = s.Find(ctx, "jewelryproduct", models.NewFilter(), 50)
	require.NoError(t, err)
	assert.Len(t, docs, 5)

	docs, err = s.Find(ctx, "jewelryproduct", models.NewFilter().Eq("featured", true), 50)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = s.Find(ctx, "missing", nil, 50)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestNestedDocumentsAndCollections(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Insert(ctx, "order", models.Document{
		"items":  []models.Document{{"product_id": "abc", "quantity": 2}},
		"total":  59.98,
		"status": "pending",
	})
	require.NoError(t, err)

	docs, err := s.Find(ctx, "order", nil, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	items, ok := docs[0]["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", item["product_id"])

	names, err := s.CollectionNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "order")

	assert.Equal(t, "jewelry_store_test", s.Name())
}

func TestIndexes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	idx := models.Index{Kind: models.KindJewelryProduct, Field: "category"}
	require.NoError(t, s.EnsureIndex(ctx, idx))
	require.NoError(t, s.EnsureIndex(ctx, idx))
	require.NoError(t, s.DropIndex(ctx, idx))
}

func TestNormalize(t *testing.T) {
	id := bson.NewObjectID()
	now := time.Now().UTC().Truncate(time.Millisecond)

	got := normalize(bson.D{
		{Key: "_id", Value: id},
		{Key: "at", Value: bson.NewDateTimeFromTime(now)},
		{Key: "tags", Value: bson.A{"a", bson.M{"k": int32(1)}}},
	})

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.Hex(), m["_id"])
	at, ok := m["at"].(time.Time)
	require.True(t, ok)
	assert.True(t, now.Equal(at))
	assert.Equal(t, []any{"a", map[string]any{"k": int32(1)}}, m["tags"])
}
