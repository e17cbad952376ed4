package authstate

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test connection
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	// Clear test DB
	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func TestStore_MemoryOnly(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()
	signer := "7pr2BUjjdZy418NzTfqnpafR3GG3BvQyDyweM1R4kKA1"

	assert.False(t, store.IsValidated(ctx, signer))

	require.NoError(t, store.MarkValidated(ctx, signer))
	assert.True(t, store.IsValidated(ctx, signer))

	// other signers stay unvalidated
	assert.False(t, store.IsValidated(ctx, "otherSigner"))

	require.NoError(t, store.Clear(ctx, signer))
	assert.False(t, store.IsValidated(ctx, signer))
}

func TestStore_RedisPersistence(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	signer := "7pr2BUjjdZy418NzTfqnpafR3GG3BvQyDyweM1R4kKA1"

	store := NewStore(client)
	require.NoError(t, store.MarkValidated(ctx, signer))

	// A fresh store with an empty local map reads the marker back from redis.
	fresh := NewStore(client)
	assert.True(t, fresh.IsValidated(ctx, signer))

	require.NoError(t, fresh.Clear(ctx, signer))
	assert.False(t, NewStore(client).IsValidated(ctx, signer))
}

func TestStore_LocalFallbackWhenRedisEmpty(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	store := NewStore(client)

	assert.False(t, store.IsValidated(ctx, "neverSeen"))
}
