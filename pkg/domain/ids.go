// Package domain holds shared domain primitives. Construct values via the
// Parse helpers at trust boundaries; direct casting bypasses validation.
package domain

import (
	"regexp"
	"strings"

	"paygate/pkg/errdomain"
)

// Identity is an opaque external account identifier (e.g. a chat platform
// user id). Invariant: alphanumeric plus underscore only.
type Identity string

var identityPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ParseIdentity validates and returns an Identity.
func ParseIdentity(s string) (Identity, error) {
	if !identityPattern.MatchString(s) {
		return "", errdomain.New(errdomain.CodeInvalidInput, "identity must be alphanumeric or underscore")
	}
	return Identity(s), nil
}

// Valid reports whether the identity satisfies the format invariant.
func (i Identity) Valid() bool { return identityPattern.MatchString(string(i)) }

func (i Identity) String() string { return string(i) }

// GroupID identifies one distribution group (one settlement event, e.g. a
// single quiz). It doubles as the lock and rate-limit key suffix.
type GroupID string

// ParseGroupID validates and returns a GroupID.
func ParseGroupID(s string) (GroupID, error) {
	if strings.TrimSpace(s) == "" {
		return "", errdomain.New(errdomain.CodeInvalidInput, "group id cannot be empty")
	}
	return GroupID(s), nil
}

func (g GroupID) String() string { return string(g) }

// TxID identifies a submitted transfer on the underlying ledger.
type TxID string

func (t TxID) String() string { return string(t) }
