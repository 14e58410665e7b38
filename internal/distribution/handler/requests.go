package handler

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/asaskevich/govalidator"

	"paygate/internal/distribution"
	"paygate/internal/wallet/validate"
	"paygate/pkg/errdomain"
)

// ParticipantPayload is one reward recipient in the request body.
type ParticipantPayload struct {
	Identity string `json:"identity"`
	Address  string `json:"address"`
	Amount   Amount `json:"amount"`
}

// Amount decodes from a JSON number or a numeric string, which loosely typed
// clients still send. An unparseable string becomes NaN so the engine drops
// that one participant instead of the whole request failing.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, ok := validate.ParseAmount(s)
		if !ok {
			f = math.NaN()
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// DistributeRequest is the HTTP request body for POST /distributions.
// Per-participant validity is the engine's concern; only request-level
// structure is checked here.
type DistributeRequest struct {
	GroupID               string               `json:"group_id"`
	Token                 string               `json:"token"`
	ChainID               int64                `json:"chain_id"`
	CorrectParticipants   []ParticipantPayload `json:"correct_participants"`
	IncorrectParticipants []ParticipantPayload `json:"incorrect_participants"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DistributeRequest) Validate() error {
	if r == nil {
		return errdomain.New(errdomain.CodeInvalidInput, "request body is required")
	}
	r.GroupID = strings.TrimSpace(r.GroupID)
	if !govalidator.StringLength(r.GroupID, "1", "128") {
		return errdomain.New(errdomain.CodeInvalidInput, "group_id must be 1-128 characters")
	}
	r.Token = strings.TrimSpace(r.Token)
	if r.Token == "" {
		return errdomain.New(errdomain.CodeInvalidInput, "token is required")
	}
	if r.ChainID <= 0 {
		return errdomain.New(errdomain.CodeInvalidInput, "chain_id must be positive")
	}
	if len(r.CorrectParticipants)+len(r.IncorrectParticipants) > maxParticipants {
		return errdomain.Newf(errdomain.CodeInvalidInput, "at most %d participants per distribution", maxParticipants)
	}
	return nil
}

// maxParticipants bounds one batch so a single request cannot monopolize
// the transfer backend.
const maxParticipants = 1000

// ToDomain converts the payload into the engine's request type.
func (r *DistributeRequest) ToDomain() distribution.Request {
	return distribution.Request{
		GroupID:               r.GroupID,
		Token:                 r.Token,
		ChainID:               r.ChainID,
		CorrectParticipants:   toParticipants(r.CorrectParticipants),
		IncorrectParticipants: toParticipants(r.IncorrectParticipants),
	}
}

func toParticipants(payloads []ParticipantPayload) []distribution.Participant {
	out := make([]distribution.Participant, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, distribution.Participant{
			Identity: p.Identity,
			Address:  p.Address,
			Amount:   float64(p.Amount),
		})
	}
	return out
}
