// Package split computes the per-participant reward amounts for one pool.
package split

// CorrectShareBps is the correct group's share of the pool in basis points.
const CorrectShareBps = 7500

// Split is the per-user payout for each answer group.
type Split struct {
	CorrectPerUser   int64 `json:"correct_per_user"`
	IncorrectPerUser int64 `json:"incorrect_per_user"`
}

// Calculate divides pool 75/25 between the correct and incorrect groups and
// floors the per-user amounts. An empty group's share stays undistributed
// rather than moving to the other group, and integer-floor rounding loss is
// accepted. Degenerate inputs yield zeros.
func Calculate(totalCorrect, totalIncorrect int, pool int64) Split {
	if pool <= 0 {
		return Split{}
	}

	correctPool := shareOf(pool, CorrectShareBps)
	incorrectPool := shareOf(pool, 10000-CorrectShareBps)

	var out Split
	if totalCorrect > 0 {
		out.CorrectPerUser = correctPool / int64(totalCorrect)
	}
	if totalIncorrect > 0 {
		out.IncorrectPerUser = incorrectPool / int64(totalIncorrect)
	}
	return out
}

// shareOf floors pool*bps/10000. Pools arrive in smallest units, so
// wei-scale values are routine; the quotient/remainder decomposition keeps
// every intermediate product inside int64 where the naive pool*bps wraps.
func shareOf(pool, bps int64) int64 {
	return pool/10000*bps + pool%10000*bps/10000
}

// Distributed reports the total amount the split actually pays out, which
// never exceeds the pool.
func (s Split) Distributed(totalCorrect, totalIncorrect int) int64 {
	return s.CorrectPerUser*int64(totalCorrect) + s.IncorrectPerUser*int64(totalIncorrect)
}
