// internal/testutil/db.go

// Package testutil holds shared helpers for store and handler tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TestContext returns a context with a generous deadline for test I/O.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// SetupTestDB connects to the MongoDB named by MEETHUB_TEST_MONGO_URI
// and hands the test a throwaway database that is dropped on cleanup.
// Tests that need a live database skip when the variable is unset, so
// the rest of the suite stays runnable anywhere.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MEETHUB_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MEETHUB_TEST_MONGO_URI not set; skipping database-backed test")
	}

	ctx := TestContext(t)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("mongo ping: %v", err)
	}

	db := client.Database(fmt.Sprintf("meethub_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}
