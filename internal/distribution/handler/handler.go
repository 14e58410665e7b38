// Package handler wires distribution endpoints to the engine.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"paygate/internal/audit"
	"paygate/internal/distribution"
	"paygate/internal/distribution/split"
	"paygate/internal/platform/middleware"
	"paygate/pkg/errdomain"
	"paygate/pkg/platform/httputil"
	"paygate/pkg/requestcontext"
)

// Service defines the interface for distribution operations.
type Service interface {
	Distribute(ctx context.Context, req distribution.Request) (*distribution.Result, error)
	LockHeld(groupID string) bool
}

// FinalityChecker reports whether a submitted transfer is irreversible.
type FinalityChecker interface {
	IsFinal(ctx context.Context, txID string) bool
}

// AuditTrail lists recorded events for one distribution group.
type AuditTrail interface {
	List(ctx context.Context, groupID string) ([]audit.Event, error)
}

// Handler handles distribution endpoints.
type Handler struct {
	service      Service
	finality     FinalityChecker
	trail        AuditTrail
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

// New constructs a distribution handler with its dependencies.
func New(service Service, finality FinalityChecker, trail AuditTrail, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		service:      service,
		finality:     finality,
		trail:        trail,
		logger:       logger,
		jwtValidator: jwtValidator,
	}
}

// Register mounts distribution endpoints on the router. Dispatching rewards
// moves funds, so it sits behind authentication; the read-only endpoints do
// not.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/distributions", h.HandleDistribute)
	})
	r.Get("/distributions/split", h.HandleSplit)
	r.Get("/distributions/{groupID}/audit", h.HandleAuditTrail)
	r.Get("/transactions/{txID}/finality", h.HandleFinality)
}

// RegisterAdmin mounts the operator status endpoint. The caller wraps the
// router group with admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/distributions/{groupID}/status", h.HandleStatus)
}

// HandleDistribute handles POST /distributions requests.
func (h *Handler) HandleDistribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	callerID := middleware.GetCallerID(ctx)
	if callerID == "" {
		httputil.WriteError(w, errdomain.New(errdomain.CodeUnauthorized, "authentication required"))
		return
	}
	if !hasScope(middleware.GetScope(ctx), scopeDistribute) {
		h.logger.WarnContext(ctx, "insufficient token scope",
			"request_id", requestID, "caller_id", callerID)
		httputil.WriteError(w, errdomain.New(errdomain.CodeUnauthorized, "token scope does not permit dispatching distributions"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[*DistributeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Distribute(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "distribution failed",
			"request_id", requestID,
			"caller_id", callerID,
			"group_id", req.GroupID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "distribution dispatched",
		"request_id", requestID,
		"caller_id", callerID,
		"group_id", req.GroupID,
		"completed", len(result.Completed),
		"failed", len(result.Failed),
		"dropped", len(result.Dropped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// scopeDistribute is the token scope required to move funds.
const scopeDistribute = "distribute"

// hasScope checks a space-separated scope claim for one required scope.
func hasScope(claim, required string) bool {
	for _, s := range strings.Fields(claim) {
		if s == required {
			return true
		}
	}
	return false
}

// HandleSplit handles GET /distributions/split requests. Pure calculation,
// no external calls.
func (h *Handler) HandleSplit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	correct, err := strconv.Atoi(query.Get("correct"))
	if err != nil || correct < 0 {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "correct must be a non-negative integer"))
		return
	}
	incorrect, err := strconv.Atoi(query.Get("incorrect"))
	if err != nil || incorrect < 0 {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "incorrect must be a non-negative integer"))
		return
	}
	pool, err := strconv.ParseInt(query.Get("pool"), 10, 64)
	if err != nil || pool < 0 {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "pool must be a non-negative integer"))
		return
	}

	result := split.Calculate(correct, incorrect, pool)
	httputil.WriteJSON(w, http.StatusOK, &SplitResponse{
		CorrectPerUser:   result.CorrectPerUser,
		IncorrectPerUser: result.IncorrectPerUser,
	})
}

// HandleAuditTrail handles GET /distributions/{groupID}/audit requests.
func (h *Handler) HandleAuditTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	groupID := chi.URLParam(r, "groupID")

	events, err := h.trail.List(ctx, groupID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"group_id", groupID,
			"error", err,
		)
		httputil.WriteError(w, errdomain.New(errdomain.CodeInternal, "failed to load audit trail"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, events)
}

// HandleStatus handles GET /admin/distributions/{groupID}/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	if groupID == "" {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "group id is required"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &StatusResponse{
		GroupID:  groupID,
		InFlight: h.service.LockHeld(groupID),
	})
}

// HandleFinality handles GET /transactions/{txID}/finality requests.
func (h *Handler) HandleFinality(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "txID")
	if txID == "" {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "transaction id is required"))
		return
	}
	final := h.finality.IsFinal(r.Context(), txID)
	httputil.WriteJSON(w, http.StatusOK, &FinalityResponse{TxID: txID, Final: final})
}
