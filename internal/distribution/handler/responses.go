package handler

import (
	"paygate/internal/distribution"
	"paygate/internal/domain"
)

// DistributeResponse is the HTTP response for POST /distributions.
type DistributeResponse struct {
	Success   bool                              `json:"success"`
	Completed []TransactionResponse             `json:"completed"`
	Failed    []FailureResponse                 `json:"failed"`
	Dropped   []distribution.DroppedParticipant `json:"dropped,omitempty"`
}

// TransactionResponse is one accepted transfer.
type TransactionResponse struct {
	TxID        string  `json:"tx_id"`
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
	Identity    string  `json:"identity"`
}

// FailureResponse is one transfer the backend rejected.
type FailureResponse struct {
	Destination string  `json:"destination"`
	Amount      float64 `json:"amount"`
	Identity    string  `json:"identity"`
	Reason      string  `json:"reason"`
}

// SplitResponse is the HTTP response for GET /distributions/split.
type SplitResponse struct {
	CorrectPerUser   int64 `json:"correct_per_user"`
	IncorrectPerUser int64 `json:"incorrect_per_user"`
}

// FinalityResponse is the HTTP response for GET /transactions/{txID}/finality.
type FinalityResponse struct {
	TxID  string `json:"tx_id"`
	Final bool   `json:"final"`
}

// StatusResponse is the HTTP response for the admin status endpoint.
type StatusResponse struct {
	GroupID  string `json:"group_id"`
	InFlight bool   `json:"in_flight"`
}

// FromResult converts an engine result to an HTTP response.
func FromResult(result *distribution.Result) *DistributeResponse {
	resp := &DistributeResponse{
		Success:   result.Success,
		Completed: make([]TransactionResponse, 0, len(result.Completed)),
		Failed:    make([]FailureResponse, 0, len(result.Failed)),
		Dropped:   result.Dropped,
	}
	for _, tx := range result.Completed {
		resp.Completed = append(resp.Completed, fromRecord(tx))
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, FailureResponse{
			Destination: f.Destination,
			Amount:      f.Amount,
			Identity:    string(f.Identity),
			Reason:      f.Reason,
		})
	}
	return resp
}

func fromRecord(tx domain.TransactionRecord) TransactionResponse {
	return TransactionResponse{
		TxID:        string(tx.TxID),
		Destination: tx.Destination,
		Amount:      tx.Amount,
		Identity:    string(tx.Identity),
	}
}
