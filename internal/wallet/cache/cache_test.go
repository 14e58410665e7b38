package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ResolutionCacheSuite struct {
	suite.Suite
	clock time.Time
	cache *ResolutionCache
}

func TestResolutionCacheSuite(t *testing.T) {
	suite.Run(t, new(ResolutionCacheSuite))
}

func (s *ResolutionCacheSuite) SetupTest() {
	s.clock = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	s.cache = New(WithCapacity(3), WithTTL(30*time.Minute), WithClock(func() time.Time { return s.clock }))
}

func (s *ResolutionCacheSuite) advance(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *ResolutionCacheSuite) TestGetSet() {
	s.cache.Set("alice", Resolution{Address: "0xA", Found: true})

	got, ok := s.cache.Get("alice")
	s.True(ok)
	s.Equal("0xA", got.Address)
	s.True(got.Found)

	_, ok = s.cache.Get("bob")
	s.False(ok)
}

func (s *ResolutionCacheSuite) TestCachesNegativeResolutions() {
	s.cache.Set("nowallet", Resolution{Found: false})

	got, ok := s.cache.Get("nowallet")
	s.True(ok, "a cached miss is still a cache hit")
	s.False(got.Found)
}

func (s *ResolutionCacheSuite) TestTTLExpiry() {
	s.cache.Set("alice", Resolution{Address: "0xA", Found: true})

	s.advance(29 * time.Minute)
	s.True(s.cache.Has("alice"))

	s.advance(2 * time.Minute)
	_, ok := s.cache.Get("alice")
	s.False(ok)
	s.Equal(0, s.cache.Len(), "expired read evicts the entry")
}

func (s *ResolutionCacheSuite) TestCustomTTL() {
	s.cache.SetWithTTL("alice", Resolution{Address: "0xA", Found: true}, time.Minute)
	s.advance(61 * time.Second)
	s.False(s.cache.Has("alice"))
}

func (s *ResolutionCacheSuite) TestLRUEviction() {
	s.cache.Set("a", Resolution{Address: "0xA", Found: true})
	s.cache.Set("b", Resolution{Address: "0xB", Found: true})
	s.cache.Set("c", Resolution{Address: "0xC", Found: true})

	// Touch "a" so "b" becomes least recently used.
	_, ok := s.cache.Get("a")
	s.Require().True(ok)

	s.cache.Set("d", Resolution{Address: "0xD", Found: true})

	s.True(s.cache.Has("a"))
	s.False(s.cache.Has("b"))
	s.True(s.cache.Has("c"))
	s.True(s.cache.Has("d"))
	s.Equal(3, s.cache.Len())
}

func (s *ResolutionCacheSuite) TestSetExistingRefreshes() {
	s.cache.Set("a", Resolution{Address: "0xA", Found: true})
	s.advance(20 * time.Minute)
	s.cache.Set("a", Resolution{Address: "0xA2", Found: true})
	s.advance(20 * time.Minute)

	got, ok := s.cache.Get("a")
	s.True(ok, "rewrite resets the entry clock")
	s.Equal("0xA2", got.Address)
	s.Equal(1, s.cache.Len())
}

func (s *ResolutionCacheSuite) TestDelete() {
	s.cache.Set("a", Resolution{Address: "0xA", Found: true})
	s.cache.Delete("a")
	s.False(s.cache.Has("a"))
	s.cache.Delete("missing") // no-op
}

func TestResolutionCacheConcurrent(t *testing.T) {
	c := New(WithCapacity(64))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range 200 {
				key := fmt.Sprintf("id_%d", j%100)
				c.Set(key, Resolution{Address: fmt.Sprintf("0x%d_%d", worker, j), Found: true})
				c.Get(key)
				c.Has(key)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 64 {
		t.Fatalf("cache exceeded capacity: %d", c.Len())
	}
}
