package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"paygate/internal/backends"
	"paygate/internal/backends/mock"
	"paygate/internal/ratelimit"
	"paygate/internal/ratelimit/store/bucket"
	"paygate/internal/wallet/cache"
	"paygate/pkg/errdomain"
)

const checksummed = "0x52908400098527886E0F7030069857D2E4169EE7"

var fastRetry = RetryPolicy{
	Attempts:    3,
	BaseTimeout: 100 * time.Millisecond,
	MaxTimeout:  200 * time.Millisecond,
	BackoffBase: time.Millisecond,
}

type ResolverSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	lookup  *mock.MockIdentityLookup
	cache   *cache.ResolutionCache
	limiter *ratelimit.Limiter
	metrics *Metrics
	svc     *Service
	ctx     context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.lookup = mock.NewMockIdentityLookup(s.ctrl)
	s.cache = cache.New()
	var err error
	s.limiter, err = ratelimit.New(bucket.NewInMemoryBucketStore(), ratelimit.WithLimit(20))
	s.Require().NoError(err)
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.svc, err = New(s.lookup, s.cache, s.limiter,
		WithRetryPolicy(fastRetry),
		WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *ResolverSuite) TestInvalidIdentityRejectedBeforeLookup() {
	// No Lookup expectation: the backend must not be called.
	_, _, err := s.svc.Resolve(s.ctx, "not valid!")
	s.Require().Error(err)
	s.Equal(errdomain.CodeInvalidInput, errdomain.CodeOf(err))
}

func (s *ResolverSuite) TestResolveCachesResult() {
	s.lookup.EXPECT().
		Lookup(gomock.Any(), "alice_01").
		Return("0x52908400098527886e0f7030069857d2e4169ee7", true, nil).
		Times(1)

	addr, found, err := s.svc.Resolve(s.ctx, "alice_01")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(checksummed, addr, "resolved address comes back checksum-normalized")

	// Second resolve within TTL must not issue another external call.
	addr, found, err = s.svc.Resolve(s.ctx, "alice_01")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(checksummed, addr)

	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.CacheHits))
}

func (s *ResolverSuite) TestResolveCachesNotFound() {
	s.lookup.EXPECT().
		Lookup(gomock.Any(), "bob_02").
		Return("", false, nil).
		Times(1)

	_, found, err := s.svc.Resolve(s.ctx, "bob_02")
	s.Require().NoError(err)
	s.False(found)

	// Known-absent identity is served from cache.
	_, found, err = s.svc.Resolve(s.ctx, "bob_02")
	s.Require().NoError(err)
	s.False(found)
}

func (s *ResolverSuite) TestResolveAliasPassthrough() {
	s.lookup.EXPECT().
		Lookup(gomock.Any(), "carol_03").
		Return("carol.eth", true, nil)

	addr, found, err := s.svc.Resolve(s.ctx, "carol_03")
	s.Require().NoError(err)
	s.True(found)
	s.Equal("carol.eth", addr)
}

func (s *ResolverSuite) TestUnusableAddressBecomesNotFound() {
	s.lookup.EXPECT().
		Lookup(gomock.Any(), "dave_04").
		Return("0x0000000000000000000000000000000000000000", true, nil).
		Times(1)

	_, found, err := s.svc.Resolve(s.ctx, "dave_04")
	s.Require().NoError(err)
	s.False(found, "zero address is never resolved")

	// The unusable result is cached like a miss.
	_, found, err = s.svc.Resolve(s.ctx, "dave_04")
	s.Require().NoError(err)
	s.False(found)
}

func (s *ResolverSuite) TestRateLimitPropagatedVerbatim() {
	limiter, err := ratelimit.New(bucket.NewInMemoryBucketStore(), ratelimit.WithLimit(1))
	s.Require().NoError(err)
	svc, err := New(s.lookup, cache.New(), limiter, WithRetryPolicy(fastRetry))
	s.Require().NoError(err)

	s.lookup.EXPECT().
		Lookup(gomock.Any(), "eve_05").
		Return("", false, errors.New("backend down")).
		Times(fastRetry.Attempts)

	_, _, err = svc.Resolve(s.ctx, "eve_05")
	s.Require().Error(err)
	s.Equal(errdomain.CodeResolutionFailed, errdomain.CodeOf(err))

	// Failed lookups are not cached, so the next call hits the limiter.
	_, _, err = svc.Resolve(s.ctx, "eve_05")
	s.Require().Error(err)
	s.Equal(errdomain.CodeRateLimited, errdomain.CodeOf(err))
}

func (s *ResolverSuite) TestRetryThenSuccess() {
	gomock.InOrder(
		s.lookup.EXPECT().
			Lookup(gomock.Any(), "frank_06").
			Return("", false, errors.New("timeout")),
		s.lookup.EXPECT().
			Lookup(gomock.Any(), "frank_06").
			Return("0x52908400098527886e0f7030069857d2e4169ee7", true, nil),
	)

	addr, found, err := s.svc.Resolve(s.ctx, "frank_06")
	s.Require().NoError(err)
	s.True(found)
	s.Equal(checksummed, addr)
	s.Equal(1.0, promtestutil.ToFloat64(s.metrics.Retries))
}

func (s *ResolverSuite) TestAllAttemptsExhausted() {
	underlying := errors.New("lookup backend unreachable")
	s.lookup.EXPECT().
		Lookup(gomock.Any(), "grace_07").
		Return("", false, underlying).
		Times(fastRetry.Attempts)

	_, _, err := s.svc.Resolve(s.ctx, "grace_07")
	s.Require().Error(err)
	s.Equal(errdomain.CodeResolutionFailed, errdomain.CodeOf(err))
	s.ErrorIs(err, underlying)
}

func (s *ResolverSuite) TestAttemptTimeoutBoundsSlowBackend() {
	slow := &backends.StubIdentityLookup{
		Latency:   time.Second,
		Addresses: map[string]string{"henry_08": checksummed},
	}
	svc, err := New(slow, cache.New(), s.limiter, WithRetryPolicy(RetryPolicy{
		Attempts:    2,
		BaseTimeout: 20 * time.Millisecond,
		MaxTimeout:  40 * time.Millisecond,
		BackoffBase: time.Millisecond,
	}))
	s.Require().NoError(err)

	start := time.Now()
	_, _, err = svc.Resolve(s.ctx, "henry_08")
	s.Require().Error(err)
	s.Equal(errdomain.CodeResolutionFailed, errdomain.CodeOf(err))
	s.Less(time.Since(start), 500*time.Millisecond, "per-attempt timeouts bound total latency")
}
