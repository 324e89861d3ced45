package cache

import (
	"context"
	"time"
)

// Cache is the key/value store consulted before any external reasoning call.
//
// Implementations must treat failures as soft: a broken backend degrades to
// a permanent miss and must never fail a workflow.
type Cache interface {
	// Get returns the stored value for key, or ok=false on miss.
	Get(ctx context.Context, key string) (value []byte, ok bool)
	// Set stores value under key with the given TTL. Best effort.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes key. Best effort.
	Delete(ctx context.Context, key string)
}
