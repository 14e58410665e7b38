package backends

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgdomain "paygate/pkg/domain"

	"paygate/internal/domain"
)

// StubIdentityLookup serves deterministic resolutions with a configurable
// latency to mimic real-world calls. Used for local runs and tests.
type StubIdentityLookup struct {
	Latency   time.Duration
	Addresses map[string]string // identity -> raw address; absent means no wallet

	mu    sync.Mutex
	calls int
}

func (c *StubIdentityLookup) Lookup(ctx context.Context, identity string) (string, bool, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	raw, ok := c.Addresses[identity]
	return raw, ok, nil
}

// Calls reports how many lookups were issued, for cache behavior tests.
func (c *StubIdentityLookup) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// StubTokenTransfer accepts every intent except destinations listed in
// FailDestinations, which come back as failed transfers.
type StubTokenTransfer struct {
	Latency          time.Duration
	FailDestinations map[string]string // destination -> failure reason

	mu      sync.Mutex
	batches [][]domain.TransactionIntent
}

func (c *StubTokenTransfer) BatchTransfer(ctx context.Context, intents []domain.TransactionIntent) (*domain.BatchResult, error) {
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c.mu.Lock()
	copied := make([]domain.TransactionIntent, len(intents))
	copy(copied, intents)
	c.batches = append(c.batches, copied)
	batchNo := len(c.batches)
	c.mu.Unlock()

	result := &domain.BatchResult{}
	for i, intent := range intents {
		if reason, bad := c.FailDestinations[intent.Destination]; bad {
			result.Failed = append(result.Failed, domain.FailureRecord{
				Destination: intent.Destination,
				Amount:      intent.Amount,
				Identity:    intent.Metadata.Identity,
				Reason:      reason,
			})
			continue
		}
		result.Transactions = append(result.Transactions, domain.TransactionRecord{
			TxID:        pkgdomain.TxID(fmt.Sprintf("0xstub%04d%04d", batchNo, i)),
			Destination: intent.Destination,
			Amount:      intent.Amount,
			Identity:    intent.Metadata.Identity,
		})
	}
	return result, nil
}

// Batches returns the dispatched batches, for non-overlap and dedupe tests.
func (c *StubTokenTransfer) Batches() [][]domain.TransactionIntent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]domain.TransactionIntent, len(c.batches))
	copy(out, c.batches)
	return out
}

// StubTxStatus serves transaction statuses from a fixed table. Unknown IDs
// return a nil record, mirroring ledgers that have not seen the hash yet.
type StubTxStatus struct {
	Latency  time.Duration
	Statuses map[string]domain.TxStatusValue
}

func (c *StubTxStatus) Status(ctx context.Context, txID string) (*domain.TxStatusRecord, error) {
	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	status, ok := c.Statuses[txID]
	if !ok {
		return nil, nil
	}
	return &domain.TxStatusRecord{TxID: pkgdomain.TxID(txID), Status: status}, nil
}
