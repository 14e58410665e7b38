package models

import (
	"strings"
	"time"
)

// Result represents the outcome of a rate limit check.
type Result struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// SanitizeKeySegment escapes delimiter characters in rate limit key segments
// so user-controlled identifiers containing ':' cannot collide with adjacent
// buckets.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// LookupKey builds the admission key for one identity resolution.
func LookupKey(identity string) string {
	return "lookup:" + SanitizeKeySegment(identity)
}

// DispatchKey builds the admission key for one distribution group.
func DispatchKey(groupID string) string {
	return "distribution:" + SanitizeKeySegment(groupID)
}
