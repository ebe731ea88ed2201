// Package testutil provides shared helpers for store and handler tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dalemusser/deckhub/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultTestMongoURI is used when DECKHUB_TEST_MONGO_URI is not set.
const DefaultTestMongoURI = "mongodb://localhost:27017"

// SetupTestDB connects to a local MongoDB and returns a fresh database for
// this test. If no server is reachable the test is skipped, so the suite
// stays green on machines without MongoDB. The database is dropped when the
// test finishes.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("DECKHUB_TEST_MONGO_URI")
	if uri == "" {
		uri = DefaultTestMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("skipping: MongoDB not reachable at %s: %v", uri, err)
	}

	// Unique database per test so parallel packages don't collide.
	db := client.Database("deckhub_test_" + primitive.NewObjectID().Hex())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	// Stores rely on the unique indexes (users.email, invites token lookup).
	ensureCtx, ensureCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer ensureCancel()
	if err := indexes.EnsureAll(ensureCtx, db); err != nil {
		t.Fatalf("failed to ensure indexes on test database: %v", err)
	}

	return db
}

// TestContext returns a context with a generous timeout for test DB calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
