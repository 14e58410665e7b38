// Package httptransport assembles the HTTP surface: public wallet and
// distribution endpoints, the admin surface, and operational probes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	disthandler "paygate/internal/distribution/handler"
	"paygate/internal/platform/middleware"
	rlhandler "paygate/internal/ratelimit/handler"
	wallethandler "paygate/internal/wallet/handler"
)

// Deps collects the wired handlers and cross-cutting dependencies.
type Deps struct {
	Logger         *slog.Logger
	Wallet         *wallethandler.Handler
	Distribution   *disthandler.Handler
	RateLimitAdmin *rlhandler.Handler
	AdminTokenHash string
	Registry       *prometheus.Registry
}

// NewRouter wires all endpoints with the shared middleware stack.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	deps.Wallet.Register(r)
	deps.Distribution.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(deps.AdminTokenHash, deps.Logger))
		deps.RateLimitAdmin.RegisterAdmin(r)
		deps.Distribution.RegisterAdmin(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	return r
}
