package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"paygate/internal/audit"
	"paygate/internal/backends"
	"paygate/internal/distribution"
	"paygate/internal/distribution/finality"
	"paygate/internal/distribution/lock"
	"paygate/internal/domain"
	jwttoken "paygate/internal/jwt_token"
	"paygate/internal/ratelimit"
	"paygate/internal/ratelimit/store/bucket"
)

const (
	tokenAddr = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	addrA     = "0x52908400098527886E0F7030069857D2E4169EE7"
	addrB     = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
)

// HandlerSuite uses a real engine over stub backends; handler tests validate
// HTTP concerns (auth, parsing, response mapping).
type HandlerSuite struct {
	suite.Suite
	router   http.Handler
	jwtSvc   *jwttoken.JWTService
	transfer *backends.StubTokenTransfer
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.transfer = &backends.StubTokenTransfer{}
	s.jwtSvc = jwttoken.NewJWTService("test-signing-key", "paygate", "paygate-api")

	limiter, err := ratelimit.New(bucket.NewInMemoryBucketStore())
	s.Require().NoError(err)

	trail := audit.NewPublisher(audit.NewInMemoryStore())
	engine, err := distribution.New(s.transfer, lock.New(), limiter,
		distribution.WithAudit(trail))
	s.Require().NoError(err)

	status := &backends.StubTxStatus{
		Statuses: map[string]domain.TxStatusValue{
			"0xaaa": domain.TxConfirmed,
			"0xbbb": domain.TxPending,
		},
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(engine, finality.New(status), trail, logger,
		jwttoken.NewJWTServiceAdapter(s.jwtSvc))

	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	s.router = r
}

func (s *HandlerSuite) bearer() string {
	return s.bearerWithScope("distribute")
}

func (s *HandlerSuite) bearerWithScope(scope string) string {
	token, err := s.jwtSvc.GenerateAccessToken("settlement-job", scope, time.Minute)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *HandlerSuite) distribute(body string, authorize bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/distributions",
		bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if authorize {
		req.Header.Set("Authorization", s.bearer())
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) validBody() string {
	body, _ := json.Marshal(DistributeRequest{
		GroupID: "quiz_7",
		Token:   tokenAddr,
		ChainID: 1,
		CorrectParticipants: []ParticipantPayload{
			{Identity: "alice", Address: addrA, Amount: 1.875},
		},
		IncorrectParticipants: []ParticipantPayload{
			{Identity: "bob", Address: addrB, Amount: 0.625},
		},
	})
	return string(body)
}

func (s *HandlerSuite) TestDistribute_RequiresAuth() {
	rec := s.distribute(s.validBody(), false)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(s.transfer.Batches())
}

func (s *HandlerSuite) TestDistribute_Success() {
	rec := s.distribute(s.validBody(), true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp DistributeResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Success)
	s.Len(resp.Completed, 2)
	s.Empty(resp.Failed)
}

func (s *HandlerSuite) TestDistribute_InsufficientScope() {
	req := httptest.NewRequest(http.MethodPost, "/distributions",
		bytes.NewReader([]byte(s.validBody())))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.bearerWithScope("read"))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Empty(s.transfer.Batches())
}

func (s *HandlerSuite) TestDistribute_StringAmounts() {
	body := `{"group_id":"quiz_7","token":"` + tokenAddr + `","chain_id":1,` +
		`"correct_participants":[{"identity":"alice","address":"` + addrA + `","amount":"1.875"}],` +
		`"incorrect_participants":[{"identity":"bob","address":"` + addrB + `","amount":"not a number"}]}`
	rec := s.distribute(body, true)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp DistributeResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.True(resp.Success)
	s.Require().Len(resp.Completed, 1)
	s.Equal(1.875, resp.Completed[0].Amount)
	// The unparseable amount drops bob alone, not the batch.
	s.Require().Len(resp.Dropped, 1)
	s.Equal("bob", resp.Dropped[0].Identity)
	s.Equal(distribution.DropInvalidAmount, resp.Dropped[0].Reason)
}

func (s *HandlerSuite) TestDistribute_InvalidJSON() {
	rec := s.distribute("not valid json", true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestDistribute_MissingGroupID() {
	rec := s.distribute(`{"token":"`+tokenAddr+`","chain_id":1}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Equal("invalid_input", body["error"])
}

func (s *HandlerSuite) TestDistribute_InvalidToken() {
	rec := s.distribute(`{"group_id":"quiz_7","token":"nope","chain_id":1,"correct_participants":[{"identity":"alice","address":"`+addrA+`","amount":1}]}`, true)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var body map[string]string
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
	s.Contains(body["error_description"], "invalid token address")
}

func (s *HandlerSuite) TestSplit() {
	req := httptest.NewRequest(http.MethodGet, "/distributions/split?correct=4&incorrect=4&pool=10000", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp SplitResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal(int64(1875), resp.CorrectPerUser)
	s.Equal(int64(625), resp.IncorrectPerUser)
}

func (s *HandlerSuite) TestSplit_BadQuery() {
	req := httptest.NewRequest(http.MethodGet, "/distributions/split?correct=x&incorrect=4&pool=10000", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestFinality() {
	for path, expected := range map[string]bool{
		"/transactions/0xaaa/finality": true,
		"/transactions/0xbbb/finality": false,
		"/transactions/0xzzz/finality": true,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Require().Equal(http.StatusOK, rec.Code)
		var resp FinalityResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(expected, resp.Final, path)
	}
}

func (s *HandlerSuite) TestStatus_Idle() {
	req := httptest.NewRequest(http.MethodGet, "/admin/distributions/quiz_7/status", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var resp StatusResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	s.Equal("quiz_7", resp.GroupID)
	s.False(resp.InFlight)
}

func (s *HandlerSuite) TestAuditTrail() {
	rec := s.distribute(s.validBody(), true)
	s.Require().Equal(http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/distributions/quiz_7/audit", nil)
	listRec := httptest.NewRecorder()
	s.router.ServeHTTP(listRec, req)

	s.Require().Equal(http.StatusOK, listRec.Code)
	var events []audit.Event
	s.Require().NoError(json.NewDecoder(listRec.Body).Decode(&events))
	s.NotEmpty(events)
}
