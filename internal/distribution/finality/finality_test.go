package finality

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"paygate/internal/backends"
	"paygate/internal/domain"
)

type FinalitySuite struct {
	suite.Suite
	status *backends.StubTxStatus
}

func TestFinalitySuite(t *testing.T) {
	suite.Run(t, new(FinalitySuite))
}

func (s *FinalitySuite) SetupTest() {
	s.status = &backends.StubTxStatus{
		Statuses: map[string]domain.TxStatusValue{
			"0xaaa": domain.TxConfirmed,
			"0xbbb": domain.TxPending,
			"0xccc": domain.TxFailed,
		},
	}
}

func (s *FinalitySuite) TestStatusOutcomes() {
	checker := New(s.status)
	ctx := context.Background()

	s.Run("confirmed is final", func() {
		s.True(checker.IsFinal(ctx, "0xaaa"))
	})

	s.Run("pending is not final", func() {
		s.False(checker.IsFinal(ctx, "0xbbb"))
	})

	s.Run("failed is not final", func() {
		s.False(checker.IsFinal(ctx, "0xccc"))
	})

	s.Run("unknown transaction is tentatively final", func() {
		s.True(checker.IsFinal(ctx, "0xddd"))
	})
}

func (s *FinalitySuite) TestTimeoutIsNotFinal() {
	s.status.Latency = 200 * time.Millisecond
	checker := New(s.status, WithTimeout(20*time.Millisecond))

	start := time.Now()
	s.False(checker.IsFinal(context.Background(), "0xaaa"))
	s.Less(time.Since(start), 150*time.Millisecond, "wait must be bounded by the timeout")
}
