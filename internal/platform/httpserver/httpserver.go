// Package httpserver builds the process listener with timeouts sized to the
// payout workflow: a dispatch request can legitimately hold the line through
// the per-group lock wait and a transient-retry pause.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	// writeTimeout sits above the router's 30s handler budget so the
	// server never cuts off a response the handler was allowed to produce.
	writeTimeout = 35 * time.Second
	idleTimeout  = 60 * time.Second
)

// ShutdownTimeout bounds the drain of in-flight dispatches at process stop.
const ShutdownTimeout = 10 * time.Second

// New builds the HTTP server for the given address and handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Shutdown drains the server within ShutdownTimeout.
func Shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
