// Package finality decides whether a submitted transfer can be treated as
// irreversible by the underlying ledger.
package finality

import (
	"context"
	"log/slog"
	"time"

	"paygate/internal/backends"
	"paygate/internal/domain"
)

// DefaultTimeout bounds one status query.
const DefaultTimeout = 5 * time.Second

// Checker queries the ledger status backend with a bounded wait.
//
// The asymmetry is deliberate: a transaction the backend cannot find yet is
// treated as final because status indexes lag submission, while a query that
// times out is not, since we learned nothing about the transaction itself.
type Checker struct {
	status  backends.TxStatus
	timeout time.Duration
	logger  *slog.Logger
}

// Option customises the checker.
type Option func(*Checker)

// WithTimeout overrides the per-query wait bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger supplies a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) { c.logger = logger }
}

// New creates a finality checker over the status backend.
func New(status backends.TxStatus, opts ...Option) *Checker {
	c := &Checker{status: status, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsFinal reports whether the transaction is confirmed. Pending and failed
// transactions are not final; neither is one whose status query timed out
// or errored.
func (c *Checker) IsFinal(ctx context.Context, txID string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	record, err := c.status.Status(ctx, txID)
	if err != nil {
		if c.logger != nil {
			c.logger.WarnContext(ctx, "transaction status query failed",
				"tx_id", txID, "error", err)
		}
		return false
	}
	if record == nil {
		return true
	}
	return record.Status == domain.TxConfirmed
}
