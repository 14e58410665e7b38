// Package distribution orchestrates reward payouts: it validates and
// partitions participants, dedupes destinations, serializes per-group
// dispatch behind a keyed lock, and hands one batch to the transfer backend.
package distribution

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paygate/internal/audit"
	"paygate/internal/backends"
	"paygate/internal/distribution/lock"
	"paygate/internal/domain"
	"paygate/internal/ratelimit"
	rlmodels "paygate/internal/ratelimit/models"
	"paygate/internal/wallet/validate"
	pkgdomain "paygate/pkg/domain"
	"paygate/pkg/errdomain"
)

// DefaultRetryDelay is the pause before the single transient-error retry.
const DefaultRetryDelay = time.Second

// Engine runs distributions. One instance is shared by all callers; the
// keyed lock guarantees at most one in-flight dispatch per group.
type Engine struct {
	transfer   backends.TokenTransfer
	locks      *lock.KeyedLock
	limiter    *ratelimit.Limiter
	validator  validate.Validator
	audit      *audit.Publisher
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	retryDelay time.Duration
	sleep      func(context.Context, time.Duration) error
}

// Option customises the engine instance.
type Option func(*Engine)

// WithLogger supplies a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics supplies the metrics registry.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithAudit supplies the audit publisher.
func WithAudit(p *audit.Publisher) Option {
	return func(e *Engine) { e.audit = p }
}

// WithValidator overrides the address validation rules.
func WithValidator(v validate.Validator) Option {
	return func(e *Engine) { e.validator = v }
}

// WithRetryDelay overrides the transient-retry pause.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.retryDelay = d
		}
	}
}

// New creates a distribution engine.
func New(transfer backends.TokenTransfer, locks *lock.KeyedLock, limiter *ratelimit.Limiter, opts ...Option) (*Engine, error) {
	if transfer == nil {
		return nil, errors.New("token transfer backend is required")
	}
	if locks == nil {
		return nil, errors.New("keyed lock is required")
	}
	if limiter == nil {
		return nil, errors.New("rate limiter is required")
	}
	e := &Engine{
		transfer:   transfer,
		locks:      locks,
		limiter:    limiter,
		validator:  validate.Validator{AliasSuffixes: []string{".eth"}},
		tracer:     otel.Tracer("paygate/distribution"),
		retryDelay: DefaultRetryDelay,
		sleep:      sleepCtx,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Distribute executes one reward distribution. Fails with invalid_input,
// rate_limited, lock_timeout, or dispatch_failed. Per-participant problems
// never abort the batch; those participants are dropped with a reason.
func (e *Engine) Distribute(ctx context.Context, req Request) (*Result, error) {
	ctx, span := e.tracer.Start(ctx, "distribution.distribute",
		trace.WithAttributes(attribute.String("group_id", req.GroupID)))
	defer span.End()

	groupID, err := pkgdomain.ParseGroupID(req.GroupID)
	if err != nil {
		return nil, errdomain.New(errdomain.CodeInvalidInput, "group id must be a non-empty string")
	}
	token, ok := e.validator.Address(req.Token)
	if !ok {
		return nil, errdomain.New(errdomain.CodeInvalidInput, "invalid token address")
	}
	if req.ChainID <= 0 {
		return nil, errdomain.New(errdomain.CodeInvalidInput, "invalid chain id")
	}

	key := rlmodels.DispatchKey(string(groupID))
	release, err := e.locks.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	e.emit(ctx, audit.Event{Action: audit.ActionDistributionStarted, GroupID: string(groupID)})

	intents, dropped := e.buildIntents(ctx, groupID, token, req)

	// An event where nobody qualifies for a payout is a completed
	// distribution, not an error, and costs no rate-limit budget.
	if len(intents) == 0 {
		result := &Result{Success: true, Dropped: dropped}
		e.emit(ctx, audit.Event{Action: audit.ActionDistributionDone, GroupID: string(groupID)})
		return result, nil
	}

	if _, err := e.limiter.Consume(ctx, key); err != nil {
		return nil, err
	}

	batch, err := e.dispatch(ctx, groupID, intents)
	if err != nil {
		e.emit(ctx, audit.Event{
			Action:  audit.ActionDispatchFailed,
			GroupID: string(groupID),
			Reason:  err.Error(),
		})
		return nil, err
	}

	result := &Result{
		Success:   true,
		Completed: batch.Transactions,
		Failed:    batch.Failed,
		Dropped:   dropped,
	}
	if e.metrics != nil {
		e.metrics.Transfers.WithLabelValues("completed").Add(float64(len(batch.Transactions)))
		e.metrics.Transfers.WithLabelValues("failed").Add(float64(len(batch.Failed)))
	}
	e.emit(ctx, audit.Event{Action: audit.ActionDistributionDone, GroupID: string(groupID)})
	return result, nil
}

// LockHeld reports whether a distribution for the group is currently in
// flight, for the status surface.
func (e *Engine) LockHeld(groupID string) bool {
	return e.locks.Held(rlmodels.DispatchKey(groupID))
}

// buildIntents validates and dedupes both participant groups, correct first.
// The first participant to claim a destination keeps it; later ones drop.
func (e *Engine) buildIntents(ctx context.Context, groupID pkgdomain.GroupID, token string, req Request) ([]domain.TransactionIntent, []DroppedParticipant) {
	var (
		intents []domain.TransactionIntent
		dropped []DroppedParticipant
		seen    = make(map[string]struct{})
	)

	add := func(p Participant, tag domain.GroupTag) {
		reason := ""
		canonical := ""
		switch {
		case !e.validator.Identity(p.Identity):
			reason = DropInvalidIdentity
		default:
			var ok bool
			canonical, ok = e.validator.Address(p.Address)
			switch {
			case !ok:
				reason = DropInvalidAddress
			case !e.validator.Amount(p.Amount):
				reason = DropInvalidAmount
			default:
				if _, dup := seen[canonical]; dup {
					reason = DropDuplicateAddress
				}
			}
		}

		if reason != "" {
			dropped = append(dropped, DroppedParticipant{
				Identity: p.Identity,
				Address:  p.Address,
				Reason:   reason,
			})
			if e.metrics != nil {
				e.metrics.DroppedByReason.WithLabelValues(reason).Inc()
			}
			if e.logger != nil {
				e.logger.InfoContext(ctx, "participant dropped",
					"group_id", groupID, "identity", p.Identity, "reason", reason,
					"log_type", "audit",
				)
			}
			e.emit(ctx, audit.Event{
				Action:   audit.ActionParticipantDropped,
				GroupID:  string(groupID),
				Identity: p.Identity,
				Address:  p.Address,
				Reason:   reason,
			})
			return
		}

		seen[canonical] = struct{}{}
		intents = append(intents, domain.TransactionIntent{
			Destination: canonical,
			Amount:      p.Amount,
			Token:       token,
			ChainID:     req.ChainID,
			Metadata: domain.IntentMetadata{
				Identity: pkgdomain.Identity(p.Identity),
				GroupID:  groupID,
				GroupTag: tag,
			},
		})
	}

	for _, p := range req.CorrectParticipants {
		add(p, domain.GroupCorrect)
	}
	for _, p := range req.IncorrectParticipants {
		add(p, domain.GroupIncorrect)
	}
	return intents, dropped
}

// dispatch hands the batch to the transfer backend, retrying exactly once
// after a short pause when the failure looks like a transient chain
// condition.
func (e *Engine) dispatch(ctx context.Context, groupID pkgdomain.GroupID, intents []domain.TransactionIntent) (*domain.BatchResult, error) {
	if e.metrics != nil {
		e.metrics.Dispatched.Inc()
	}
	batch, err := e.transfer.BatchTransfer(ctx, intents)
	if err == nil {
		return batch, nil
	}
	if !isTransientChainError(err) {
		return nil, errdomain.Wrap(err, errdomain.CodeDispatchFailed, "batch transfer failed")
	}

	if e.logger != nil {
		e.logger.WarnContext(ctx, "transient dispatch failure, retrying once",
			"group_id", groupID, "error", err)
	}
	if e.metrics != nil {
		e.metrics.DispatchRetries.Inc()
	}
	e.emit(ctx, audit.Event{
		Action:  audit.ActionDispatchRetried,
		GroupID: string(groupID),
		Reason:  err.Error(),
	})

	if sleepErr := e.sleep(ctx, e.retryDelay); sleepErr != nil {
		return nil, errdomain.Wrap(err, errdomain.CodeDispatchFailed, "batch transfer aborted")
	}
	batch, err = e.transfer.BatchTransfer(ctx, intents)
	if err != nil {
		return nil, errdomain.Wrap(err, errdomain.CodeDispatchFailed, "batch transfer failed after retry")
	}
	return batch, nil
}

func (e *Engine) emit(ctx context.Context, event audit.Event) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Emit(ctx, event); err != nil && e.logger != nil {
		e.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

// isTransientChainError matches the backend failure modes that clear on
// their own when the pending transaction pool advances.
func isTransientChainError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nonce too low") ||
		strings.Contains(msg, "replacement transaction underpriced")
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
