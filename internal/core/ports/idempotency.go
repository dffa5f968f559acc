package ports

import "context"

// IdempotencyStore remembers which task id an Idempotency-Key produced so
// that a replayed create returns the original task instead of inserting a
// second one. Entries expire; a miss is reported as an empty task id, not
// an error.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (string, error)
	Remember(ctx context.Context, ownerID, key, taskID string) error
}
