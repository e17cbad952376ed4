// Package cache mirrors the engine's latest status snapshot to redis so
// external dashboards can read it without hitting the status API. A single
// overwritten key only; trade history is deliberately not persisted.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/constants"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type StatusCache struct {
	client redis.Cmdable
	logger *logrus.Logger
}

// NewStatusCache accepts a nil client; every call then becomes a no-op.
func NewStatusCache(client redis.Cmdable, logger *logrus.Logger) *StatusCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &StatusCache{client: client, logger: logger}
}

// SetStatus overwrites the published snapshot. Best effort: failures are
// logged, never propagated into the trading loop.
func (c *StatusCache) SetStatus(ctx context.Context, snapshot any) {
	if c.client == nil {
		return
	}
	b, err := json.Marshal(snapshot)
	if err != nil {
		c.logger.WithError(err).Warn("failed to marshal status snapshot")
		return
	}
	if err := c.client.Set(ctx, constants.RedisKeyStatus, b, 0).Err(); err != nil {
		c.logger.WithError(err).Warn("failed to publish status snapshot")
	}
}

// GetStatus reads the published snapshot into out.
func (c *StatusCache) GetStatus(ctx context.Context, out any) error {
	if c.client == nil {
		return fmt.Errorf("status cache disabled")
	}
	val, err := c.client.Get(ctx, constants.RedisKeyStatus).Result()
	if err != nil {
		return fmt.Errorf("get status snapshot: %w", err)
	}
	return json.Unmarshal([]byte(val), out)
}
