package modelstore

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const testRedisURL = "redis://localhost:6379/1"

func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use test database
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	return err == nil
}

func TestNewRedisStore(t *testing.T) {
	// Skip if Redis not available
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	store, err := NewRedisStore(testRedisURL, "zpam:sms:test:new", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create Redis store: %v", err)
	}
	defer store.Close()

	if store.client == nil {
		t.Error("Redis client should not be nil")
	}
}

func TestRedisStoreRoundtrip(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	store, err := NewRedisStore(testRedisURL, "zpam:sms:test:roundtrip", zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create Redis store: %v", err)
	}
	defer store.Close()

	// Start from a clean slate in case a previous run left keys behind.
	if err := store.Delete(context.Background()); err != nil {
		t.Fatalf("Failed to clean test keys: %v", err)
	}

	verifyRoundtrip(t, store, testSnapshot(t))
}

func TestRedisStoreInvalidURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-redis-url", "zpam:sms:test", zap.NewNop()); err == nil {
		t.Error("Invalid Redis URL should fail")
	}
}
