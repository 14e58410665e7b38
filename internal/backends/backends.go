// Package backends defines the external capabilities the core calls into.
// The gateway keeps the interfaces small so tests can stub quickly.
package backends

import (
	"context"

	"paygate/internal/domain"
)

//go:generate mockgen -source=backends.go -destination=mock/mock_backends.go -package=mock

// IdentityLookup resolves an external identity to a raw payout address.
// found is false when the backend knows the identity has no linked wallet;
// err is reserved for transport or backend failures.
type IdentityLookup interface {
	Lookup(ctx context.Context, identity string) (raw string, found bool, err error)
}

// TokenTransfer executes a batch of payout intents against the token-transfer
// backend. A returned error means the dispatch call itself failed; individual
// transfer failures come back inside BatchResult.
type TokenTransfer interface {
	BatchTransfer(ctx context.Context, intents []domain.TransactionIntent) (*domain.BatchResult, error)
}

// TxStatus queries the ledger status backend. A nil record with nil error
// means the transaction is not (yet) known to the ledger.
type TxStatus interface {
	Status(ctx context.Context, txID string) (*domain.TxStatusRecord, error)
}
