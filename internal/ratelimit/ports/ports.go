// Package ports defines shared interfaces for the ratelimit module.
package ports

import (
	"context"
	"time"

	"paygate/internal/ratelimit/models"
)

// BucketStore manages sliding window rate limit counters. Implementations
// must be race-safe under concurrent callers sharing the same key.
type BucketStore interface {
	// Allow checks if a single request is allowed and consumes one token if so.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)

	// Reset clears the rate limit counter for a key.
	Reset(ctx context.Context, key string) error

	// CurrentCount returns the current request count in the window.
	CurrentCount(ctx context.Context, key string) (int, error)
}
