package domain

import (
	"paygate/pkg/domain"
)

// GroupTag labels which answer group a participant reward belongs to.
type GroupTag string

const (
	GroupCorrect   GroupTag = "correct"
	GroupIncorrect GroupTag = "incorrect"
)

// IntentMetadata carries provenance for one transfer so downstream records
// can be traced back to the participant and settlement event.
type IntentMetadata struct {
	Identity domain.Identity `json:"identity"`
	GroupID  domain.GroupID  `json:"group_id"`
	GroupTag GroupTag        `json:"group_tag"`
}

// TransactionIntent is one payout the engine asks the transfer backend to
// execute. Immutable once built; no two intents in a batch share a
// destination.
type TransactionIntent struct {
	Destination string         `json:"destination"`
	Amount      float64        `json:"amount"`
	Token       string         `json:"token"`
	ChainID     int64          `json:"chain_id"`
	Metadata    IntentMetadata `json:"metadata"`
}

// TransactionRecord reports one transfer the backend accepted.
type TransactionRecord struct {
	TxID        domain.TxID     `json:"tx_id"`
	Destination string          `json:"destination"`
	Amount      float64         `json:"amount"`
	Identity    domain.Identity `json:"identity"`
}

// FailureRecord reports one transfer the backend rejected.
type FailureRecord struct {
	Destination string          `json:"destination"`
	Amount      float64         `json:"amount"`
	Identity    domain.Identity `json:"identity"`
	Reason      string          `json:"reason"`
}

// BatchResult is the transfer backend's response for one dispatched batch.
type BatchResult struct {
	Transactions []TransactionRecord `json:"transactions"`
	Failed       []FailureRecord     `json:"failed_transactions"`
}

// TxStatusValue enumerates ledger-reported transaction states.
type TxStatusValue string

const (
	TxPending   TxStatusValue = "pending"
	TxConfirmed TxStatusValue = "confirmed"
	TxFailed    TxStatusValue = "failed"
)

// TxStatusRecord is the ledger status backend's view of one transaction.
type TxStatusRecord struct {
	TxID          domain.TxID   `json:"tx_id"`
	Status        TxStatusValue `json:"status"`
	Confirmations int           `json:"confirmations"`
}
