package distribution

import (
	"paygate/internal/domain"
)

// Participant is one reward recipient as submitted by the caller. The
// address may already be resolved or carry an alias the validator passes
// through.
type Participant struct {
	Identity string  `json:"identity"`
	Address  string  `json:"address"`
	Amount   float64 `json:"amount"`
}

// Request describes one reward distribution for a settlement group.
type Request struct {
	GroupID               string        `json:"group_id"`
	Token                 string        `json:"token"`
	ChainID               int64         `json:"chain_id"`
	CorrectParticipants   []Participant `json:"correct_participants"`
	IncorrectParticipants []Participant `json:"incorrect_participants"`
}

// Drop reasons recorded when a participant is excluded from a batch.
const (
	DropInvalidIdentity  = "invalid_identity"
	DropInvalidAddress   = "invalid_address"
	DropInvalidAmount    = "invalid_amount"
	DropDuplicateAddress = "duplicate_address"
)

// DroppedParticipant records one exclusion and why, so callers and the
// audit trail can account for every submitted participant.
type DroppedParticipant struct {
	Identity string `json:"identity"`
	Address  string `json:"address"`
	Reason   string `json:"reason"`
}

// Result aggregates the outcome of one distribution call. Success refers to
// the dispatch itself; individual transfers may still appear under Failed.
type Result struct {
	Success   bool                       `json:"success"`
	Completed []domain.TransactionRecord `json:"completed"`
	Failed    []domain.FailureRecord     `json:"failed"`
	Dropped   []DroppedParticipant       `json:"dropped,omitempty"`
}
