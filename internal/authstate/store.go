// Package authstate remembers which signers have completed the
// authorize-by-transfer handshake, so the hot path can skip re-sending the
// validation transfer on every iteration.
package authstate

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/constants"
	"github.com/redis/go-redis/v9"
)

// Record marks one signer as validated.
type Record struct {
	Signer      string    `json:"signer"`
	ValidatedAt time.Time `json:"validated_at"`
}

// Store keeps validation markers in redis when a client is provided, and
// always in process memory as a fallback. Redis failures degrade to the
// in-memory view rather than blocking the trading loop.
type Store struct {
	client redis.Cmdable

	mu    sync.RWMutex
	local map[string]Record
}

// NewStore accepts a nil client; the store then runs memory-only.
func NewStore(client redis.Cmdable) *Store {
	return &Store{
		client: client,
		local:  make(map[string]Record),
	}
}

// IsValidated reports whether the signer already completed validation.
func (s *Store) IsValidated(ctx context.Context, signer string) bool {
	s.mu.RLock()
	_, ok := s.local[signer]
	s.mu.RUnlock()
	if ok {
		return true
	}

	if s.client == nil {
		return false
	}

	val, err := s.client.Get(ctx, recordKey(signer)).Result()
	if err != nil {
		return false
	}
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return false
	}

	s.mu.Lock()
	s.local[signer] = rec
	s.mu.Unlock()
	return true
}

// MarkValidated records a completed validation transfer.
func (s *Store) MarkValidated(ctx context.Context, signer string) error {
	rec := Record{Signer: signer, ValidatedAt: time.Now().UTC()}

	s.mu.Lock()
	s.local[signer] = rec
	s.mu.Unlock()

	if s.client == nil {
		return nil
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal validation record: %w", err)
	}
	if err := s.client.Set(ctx, recordKey(signer), b, 0).Err(); err != nil {
		return fmt.Errorf("persist validation record: %w", err)
	}
	return nil
}

// Clear drops the marker, forcing re-validation on the next check.
func (s *Store) Clear(ctx context.Context, signer string) error {
	s.mu.Lock()
	delete(s.local, signer)
	s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	if err := s.client.Del(ctx, recordKey(signer)).Err(); err != nil {
		return fmt.Errorf("delete validation record: %w", err)
	}
	return nil
}

func recordKey(signer string) string {
	return constants.RedisKeyValidatedPrefix + signer
}
