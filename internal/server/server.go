// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package server serves QR code generation and history over HTTP.

	GET    /api/qr             generate an image from the query
	POST   /api/qr             generate an image from a JSON body
	GET    /api/history        list generated images, newest first
	DELETE /api/history        clear the history
	DELETE /api/history/:id    remove one record
	GET    /healthz            liveness
	GET    /metrics            Prometheus metrics
*/
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/internal/config"
)

// A Server is the HTTP front end.  Its zero value is not usable; use
// New.
type Server struct {
	store   history.Store
	opts    qr.Options // defaults for missing parameters
	metrics *Metrics
	log     zerolog.Logger
	router  *httprouter.Router
	now     func() time.Time
}

// New returns a Server recording generated images in store and
// drawing them with opts unless a request says otherwise.
func New(store history.Store, opts qr.Options, log zerolog.Logger) *Server {
	s := &Server{
		store:   store,
		opts:    opts,
		metrics: NewMetrics(),
		log:     log,
		router:  httprouter.New(),
		now:     time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Handler(http.MethodGet, "/api/qr", s.wrap("/api/qr", s.handleGenerate))
	r.Handler(http.MethodPost, "/api/qr", s.wrap("/api/qr", s.handleGenerate))
	r.Handler(http.MethodGet, "/api/history", s.wrap("/api/history", s.handleList))
	r.Handler(http.MethodDelete, "/api/history", s.wrap("/api/history", s.handleClear))
	r.Handler(http.MethodDelete, "/api/history/:id", s.wrap("/api/history/:id", s.handleRemove))
	r.Handler(http.MethodGet, "/healthz", s.wrap("/healthz", s.handleHealth))
	r.Handler(http.MethodGet, "/metrics", s.metrics.Handler())
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, "no such endpoint")
	})
}

// wrap instruments and logs h under route.
func (s *Server) wrap(route string, h http.HandlerFunc) http.Handler {
	logged := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		h(w, r)
		ev := s.log.Info()
		if rw, ok := w.(*responseWriter); ok {
			if rw.statusCode >= 500 {
				ev = s.log.Error()
			}
			ev = ev.Int("status", rw.statusCode).Int64("bytes", rw.written)
		}
		ev.Str("method", r.Method).
			Str("route", route).
			Str("remote", r.RemoteAddr).
			Dur("duration", s.now().Sub(start)).
			Msg("request")
	})
	return s.metrics.instrument(route, logged)
}

// ServeHTTP makes s an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the metrics of s.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Run serves on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, cfg)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg config.ServerConfig) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("server starting")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("server shutting down")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
