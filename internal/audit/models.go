package audit

import "time"

// Actions recorded by the distribution core.
const (
	ActionParticipantDropped  = "participant_dropped"
	ActionDistributionStarted = "distribution_started"
	ActionDistributionDone    = "distribution_completed"
	ActionDispatchRetried     = "dispatch_retried"
	ActionDispatchFailed      = "dispatch_failed"
)

// Event is emitted from domain logic to capture key payout decisions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	GroupID   string    `json:"group_id,omitempty"`
	Identity  string    `json:"identity,omitempty"`
	Address   string    `json:"address,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	TxID      string    `json:"tx_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}
