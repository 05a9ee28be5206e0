// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package api serves the prometheus metrics and the live samples
// of a running interface monitor over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/telekom/wirefish/internal/logger"
)

// API serves routes over HTTP
type API interface {
	// Run serves the registered routes until ctx is done or the server fails
	Run(ctx context.Context) error
	// RegisterRoutes adds routes to the router
	RegisterRoutes(ctx context.Context, routes ...Route)
	// Shutdown gracefully stops the server
	Shutdown(ctx context.Context) error
}

// Config is the configuration of the api server
type Config struct {
	// ListeningAddress is the host:port the server binds to
	ListeningAddress string `yaml:"address" mapstructure:"address"`
}

// Route is a single endpoint of the api
type Route struct {
	Path    string
	Method  string
	Handler http.HandlerFunc
}

type api struct {
	server *http.Server
	router chi.Router
	// addr receives the bound address once the server listens
	addr chan string
	// shutdownTimeout bounds the graceful shutdown once ctx is done
	shutdownTimeout time.Duration
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// New creates a new api server
func New(cfg Config) API {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	return &api{
		server: &http.Server{
			Addr:              cfg.ListeningAddress,
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		router:          r,
		addr:            make(chan string, 1),
		shutdownTimeout: shutdownTimeout,
	}
}

// RegisterRoutes adds the routes with a request scoped logger
func (a *api) RegisterRoutes(ctx context.Context, routes ...Route) {
	r := a.router.With(logger.Middleware(ctx))
	for _, route := range routes {
		r.Method(route.Method, route.Path, route.Handler)
	}
}

// Run listens on the configured address and serves the api.
// It blocks until ctx is done or the server fails. Once ctx is done
// only a failed graceful shutdown is returned.
func (a *api) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.server.Addr)
	if err != nil {
		log.ErrorContext(ctx, "Failed to listen", "address", a.server.Addr, "error", err)
		return fmt.Errorf("%w: %w", ErrServeAPI, err)
	}
	a.addr <- ln.Addr().String()

	cErr := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Serving api", "address", ln.Addr().String())
		if sErr := a.server.Serve(ln); sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Failed to serve api", "error", sErr)
			cErr <- fmt.Errorf("%w: %w", ErrServeAPI, sErr)
		}
		close(cErr)
	}()

	select {
	case <-ctx.Done():
		sCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
		defer cancel()
		return a.Shutdown(sCtx)
	case err := <-cErr:
		return err
	}
}

// Shutdown gracefully stops the server
func (a *api) Shutdown(ctx context.Context) error {
	if err := a.server.Shutdown(ctx); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Failed to shutdown api server", "error", err)
		return fmt.Errorf("failed shutting down api server: %w", err)
	}
	return nil
}
