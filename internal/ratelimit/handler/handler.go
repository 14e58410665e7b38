// Package handler exposes the rate-limit admin surface.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paygate/pkg/errdomain"
	"paygate/pkg/platform/httputil"
	"paygate/pkg/requestcontext"
)

// Service defines the admin operations on the limiter.
type Service interface {
	Reset(ctx context.Context, key string) error
	CurrentCount(ctx context.Context, key string) (int, error)
}

// Handler handles rate-limit admin endpoints. Mount behind RequireAdmin.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rate-limit admin handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterAdmin mounts the admin routes on the router.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/rate-limit/reset", h.HandleReset)
	r.Get("/admin/rate-limit/status", h.HandleStatus)
}

// ResetRequest is the HTTP request body for POST /admin/rate-limit/reset.
type ResetRequest struct {
	Key string `json:"key"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ResetRequest) Validate() error {
	if r == nil {
		return errdomain.New(errdomain.CodeInvalidInput, "request body is required")
	}
	r.Key = strings.TrimSpace(r.Key)
	if r.Key == "" {
		return errdomain.New(errdomain.CodeInvalidInput, "key is required")
	}
	return nil
}

// StatusResponse is the HTTP response for GET /admin/rate-limit/status.
type StatusResponse struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HandleReset handles POST /admin/rate-limit/reset requests.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*ResetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Reset(ctx, req.Key); err != nil {
		h.logger.ErrorContext(ctx, "rate limit reset failed",
			"request_id", requestID, "key", req.Key, "error", err)
		httputil.WriteError(w, errdomain.New(errdomain.CodeInternal, "failed to reset rate limit"))
		return
	}

	h.logger.InfoContext(ctx, "rate limit reset",
		"request_id", requestID,
		"key", req.Key,
		"log_type", "audit",
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus handles GET /admin/rate-limit/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInvalidInput, "key is required"))
		return
	}

	count, err := h.service.CurrentCount(ctx, key)
	if err != nil {
		httputil.WriteError(w, errdomain.New(errdomain.CodeInternal, "failed to read rate limit state"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &StatusResponse{Key: key, Count: count})
}
