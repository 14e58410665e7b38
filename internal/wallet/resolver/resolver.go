// Package resolver composes validation, caching, admission control and
// bounded retries to resolve one external identity to a payout address.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"paygate/internal/backends"
	"paygate/internal/ratelimit"
	rlmodels "paygate/internal/ratelimit/models"
	"paygate/internal/wallet/cache"
	"paygate/internal/wallet/validate"
	"paygate/pkg/errdomain"
)

// RetryPolicy bounds the external lookup. Each attempt races the backend
// call against its own timeout; the timeout doubles per attempt up to
// MaxTimeout, and failed attempts wait BackoffBase·2^attempt before retrying.
type RetryPolicy struct {
	Attempts    int
	BaseTimeout time.Duration
	MaxTimeout  time.Duration
	BackoffBase time.Duration
}

// DefaultRetryPolicy matches the lookup backend's observed latency profile:
// worst case ~7.6s of waiting before resolution is declared failed.
var DefaultRetryPolicy = RetryPolicy{
	Attempts:    3,
	BaseTimeout: time.Second,
	MaxTimeout:  8 * time.Second,
	BackoffBase: 200 * time.Millisecond,
}

// Service resolves identities via the external lookup capability.
type Service struct {
	validator validate.Validator
	cache     *cache.ResolutionCache
	limiter   *ratelimit.Limiter
	lookup    backends.IdentityLookup
	policy    RetryPolicy
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	group     singleflight.Group
	sleep     func(context.Context, time.Duration) error
}

// Option customises the service instance.
type Option func(*Service)

// WithLogger supplies a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics supplies the metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRetryPolicy overrides the retry budget.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Service) {
		if p.Attempts > 0 {
			s.policy = p
		}
	}
}

// WithValidator overrides the address validation rules.
func WithValidator(v validate.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// New creates a wallet resolver.
func New(lookup backends.IdentityLookup, c *cache.ResolutionCache, limiter *ratelimit.Limiter, opts ...Option) (*Service, error) {
	if lookup == nil {
		return nil, errors.New("identity lookup backend is required")
	}
	if c == nil {
		return nil, errors.New("resolution cache is required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	s := &Service{
		validator: validate.Validator{AliasSuffixes: []string{".eth"}},
		cache:     c,
		limiter:   limiter,
		lookup:    lookup,
		policy:    DefaultRetryPolicy,
		tracer:    otel.Tracer("paygate/wallet/resolver"),
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Resolve maps an identity to its canonical payout address. found is false
// when the identity has no linked wallet (a cached, non-error outcome).
// Fails with invalid_input, rate_limited, or resolution_failed.
func (s *Service) Resolve(ctx context.Context, identity string) (address string, found bool, err error) {
	ctx, span := s.tracer.Start(ctx, "wallet.resolve",
		trace.WithAttributes(attribute.String("identity", identity)))
	defer span.End()

	if !s.validator.Identity(identity) {
		return "", false, errdomain.New(errdomain.CodeInvalidInput, "invalid identity")
	}

	if res, ok := s.cache.Get(identity); ok {
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return res.Address, res.Found, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}

	if _, err := s.limiter.Consume(ctx, rlmodels.LookupKey(identity)); err != nil {
		return "", false, err
	}

	// Concurrent callers for the same identity share one external lookup.
	v, err, _ := s.group.Do(identity, func() (interface{}, error) {
		return s.lookupAndCache(ctx, identity)
	})
	if err != nil {
		return "", false, err
	}
	res := v.(cache.Resolution)
	return res.Address, res.Found, nil
}

func (s *Service) lookupAndCache(ctx context.Context, identity string) (cache.Resolution, error) {
	raw, found, err := s.lookupWithRetry(ctx, identity)
	if err != nil {
		if s.metrics != nil {
			s.metrics.Lookups.WithLabelValues("failed").Inc()
		}
		return cache.Resolution{}, err
	}

	res := cache.Resolution{}
	if found {
		if canonical, ok := s.validator.Address(raw); ok {
			res = cache.Resolution{Address: canonical, Found: true}
		} else if s.logger != nil {
			s.logger.WarnContext(ctx, "lookup returned unusable address",
				"identity", identity, "raw", raw)
		}
	}

	// Not-found is cached too, so known-absent identities stop hitting the
	// external service until the entry expires.
	s.cache.Set(identity, res)

	if s.metrics != nil {
		outcome := "resolved"
		if !res.Found {
			outcome = "not_found"
		}
		s.metrics.Lookups.WithLabelValues(outcome).Inc()
	}
	return res, nil
}

func (s *Service) lookupWithRetry(ctx context.Context, identity string) (raw string, found bool, err error) {
	var lastErr error
	for attempt := 0; attempt < s.policy.Attempts; attempt++ {
		if attempt > 0 {
			if s.metrics != nil {
				s.metrics.Retries.Inc()
			}
			backoff := s.policy.BackoffBase * (1 << (attempt - 1))
			if err := s.sleep(ctx, backoff); err != nil {
				return "", false, errdomain.Wrap(lastErr, errdomain.CodeResolutionFailed, "identity lookup aborted")
			}
		}

		timeout := s.policy.BaseTimeout * (1 << attempt)
		if timeout > s.policy.MaxTimeout {
			timeout = s.policy.MaxTimeout
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		raw, found, err = s.lookup.Lookup(attemptCtx, identity)
		cancel()
		if err == nil {
			return raw, found, nil
		}
		lastErr = err
		if s.logger != nil {
			s.logger.WarnContext(ctx, "identity lookup attempt failed",
				"identity", identity, "attempt", attempt+1, "error", err)
		}
	}
	return "", false, errdomain.Wrap(lastErr, errdomain.CodeResolutionFailed, "identity lookup failed after retries")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
