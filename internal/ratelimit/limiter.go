// Package ratelimit provides bounded request admission per logical key and
// time window.
package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"paygate/internal/ratelimit/metrics"
	"paygate/internal/ratelimit/models"
	"paygate/internal/ratelimit/ports"
	"paygate/pkg/errdomain"
)

const (
	// DefaultLimit admits this many requests per window per key.
	DefaultLimit = 20
	// DefaultWindow is the sliding admission window.
	DefaultWindow = time.Minute
)

// Limiter is the admission-control service. Callers pick the key (e.g.
// lookup:<identity> or distribution:<groupId>); the limiter counts within a
// sliding window and denies with a coded rate_limited error.
type Limiter struct {
	store   ports.BucketStore
	limit   int
	window  time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option customises the limiter instance.
type Option func(*Limiter)

// WithLimit overrides the per-window admission count.
func WithLimit(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = n
		}
	}
}

// WithWindow overrides the sliding window size.
func WithWindow(w time.Duration) Option {
	return func(l *Limiter) {
		if w > 0 {
			l.window = w
		}
	}
}

// WithLogger supplies a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

// WithMetrics supplies the metrics registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

// New creates a limiter over the given bucket store.
func New(store ports.BucketStore, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("bucket store is required")
	}
	l := &Limiter{
		store:  store,
		limit:  DefaultLimit,
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Consume admits one request under key or fails with a rate_limited error.
// Store failures surface as internal errors rather than silently admitting.
func (l *Limiter) Consume(ctx context.Context, key string) (*models.Result, error) {
	result, err := l.store.Allow(ctx, key, l.limit, l.window)
	if err != nil {
		return nil, errdomain.Wrap(err, errdomain.CodeInternal, "rate limit check failed")
	}

	if l.metrics != nil {
		l.metrics.RecordDecision(keyKind(key), result.Allowed)
	}
	if !result.Allowed {
		if l.logger != nil {
			l.logger.InfoContext(ctx, "rate limit exceeded",
				"key", key,
				"limit", result.Limit,
				"reset_at", result.ResetAt,
				"log_type", "audit",
			)
		}
		return result, errdomain.Newf(errdomain.CodeRateLimited, "rate limit exceeded for %s", key)
	}
	return result, nil
}

// Reset clears the counter for a key, for the admin surface.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

// CurrentCount reports the in-window count for a key.
func (l *Limiter) CurrentCount(ctx context.Context, key string) (int, error) {
	return l.store.CurrentCount(ctx, key)
}

// keyKind extracts the key prefix for metric labels, keeping identity values
// out of label cardinality.
func keyKind(key string) string {
	if prefix, _, ok := strings.Cut(key, ":"); ok {
		return prefix
	}
	return "other"
}
