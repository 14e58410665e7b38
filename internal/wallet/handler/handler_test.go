package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"paygate/internal/backends"
	"paygate/internal/ratelimit"
	"paygate/internal/ratelimit/store/bucket"
	"paygate/internal/wallet/cache"
	"paygate/internal/wallet/resolver"
)

const resolvedAddr = "0x52908400098527886E0F7030069857D2E4169EE7"

// HandlerSuite uses a real resolver over stub backends; handler tests
// validate HTTP concerns only.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	lookup *backends.StubIdentityLookup
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.lookup = &backends.StubIdentityLookup{
		Addresses: map[string]string{
			"alice": "0x52908400098527886e0f7030069857d2e4169ee7",
		},
	}

	limiter, err := ratelimit.New(bucket.NewInMemoryBucketStore())
	s.Require().NoError(err)

	svc, err := resolver.New(s.lookup, cache.New(), limiter)
	s.Require().NoError(err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/wallet/resolve",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestResolve_Found() {
	rec := s.post(`{"identity":"alice"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ResolveResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Found)
	s.Equal(resolvedAddr, resp.Address, "address comes back checksummed")
}

func (s *HandlerSuite) TestResolve_NotFound() {
	rec := s.post(`{"identity":"nobody"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp ResolveResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.False(resp.Found)
	s.Empty(resp.Address)
}

func (s *HandlerSuite) TestResolve_InvalidJSON() {
	rec := s.post("not valid json")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestResolve_InvalidIdentity() {
	rec := s.post(`{"identity":"has spaces!"}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("invalid_input", body["error"])
	s.Zero(s.lookup.Calls(), "invalid identities never reach the backend")
}

func (s *HandlerSuite) TestResolve_MissingIdentity() {
	rec := s.post(`{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}
