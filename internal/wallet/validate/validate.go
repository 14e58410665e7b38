// Package validate holds pure validation rules for identities, payout
// addresses and amounts. Invalidity is signalled by return values, never by
// panics or errors, so callers can partition bad input without control-flow
// surprises.
package validate

import (
	"math"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"paygate/pkg/domain"
)

// DefaultMinAmount is the smallest economically viable payout.
const DefaultMinAmount = 0.001

// Validator bundles the configurable knobs. The zero value validates with
// defaults and no alias passthrough.
type Validator struct {
	// AliasSuffixes lists name-service suffixes passed through unresolved
	// (e.g. ".eth"). Matching is case-insensitive.
	AliasSuffixes []string
	// MinAmount is the dust threshold; zero means DefaultMinAmount.
	MinAmount float64
}

// Identity reports whether s is a well-formed external identity.
func (v Validator) Identity(s string) bool {
	return domain.Identity(s).Valid()
}

// Address returns the canonical form of a raw payout address and whether it
// is usable. Alias-form strings pass through unchanged; hex addresses come
// back checksum-normalized; the zero address is categorically invalid.
func (v Validator) Address(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, suffix := range v.AliasSuffixes {
		if suffix != "" && strings.HasSuffix(lower, strings.ToLower(suffix)) && len(trimmed) > len(suffix) {
			return trimmed, true
		}
	}
	if !common.IsHexAddress(trimmed) {
		return "", false
	}
	addr := common.HexToAddress(trimmed)
	if addr == (common.Address{}) {
		return "", false
	}
	return addr.Hex(), true
}

// Amount reports whether a numeric payout amount is finite and at least the
// dust threshold.
func (v Validator) Amount(amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	return amount >= v.minAmount()
}

// ParseAmount parses a numeric-string amount, which callers sending JSON
// from loosely typed clients still produce. It only checks that the value is
// a finite number; the dust threshold stays with Validator.Amount so every
// participant goes through the same drop path.
func ParseAmount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (v Validator) minAmount() float64 {
	if v.MinAmount > 0 {
		return v.MinAmount
	}
	return DefaultMinAmount
}
