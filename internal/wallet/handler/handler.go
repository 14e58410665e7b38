// Package handler wires wallet-resolution endpoints to the resolver service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"paygate/pkg/platform/httputil"
	"paygate/pkg/requestcontext"
)

// Service defines the interface for wallet resolution.
type Service interface {
	Resolve(ctx context.Context, identity string) (address string, found bool, err error)
}

// Handler handles wallet endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a wallet handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts wallet endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/wallet/resolve", h.HandleResolve)
}

// HandleResolve handles POST /wallet/resolve requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[*ResolveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	address, found, err := h.service.Resolve(ctx, req.Identity)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet resolution failed",
			"request_id", requestID,
			"identity", req.Identity,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "wallet resolved",
		"request_id", requestID,
		"identity", req.Identity,
		"found", found,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, &ResolveResponse{
		Identity: req.Identity,
		Address:  address,
		Found:    found,
	})
}
