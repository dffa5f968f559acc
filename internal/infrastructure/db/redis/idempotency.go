package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps (owner, Idempotency-Key) pairs to the task id they
// produced. Key format: idem:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the task id previously recorded for this owner/key pair,
// or the empty string when the key has not been seen.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, error) {
	taskID, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return taskID, nil
}

// Remember records the task id created for this owner/key pair (expires
// after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, taskID string) error {
	return s.client.Set(ctx, s.key(ownerID, key), taskID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:%s:%s", ownerID, key)
}
