// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tickerwire/tickerwire/internal/logging"
)

// HTTPServer matches the *http.Server lifecycle methods the service
// wrapper needs, so tests can substitute a fake.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// ServerService adapts an HTTP server to suture's context-aware Serve
// contract: ListenAndServe runs in a goroutine, and context
// cancellation triggers a graceful Shutdown bounded by the configured
// timeout.
type ServerService struct {
	server          HTTPServer
	addr            string
	shutdownTimeout time.Duration
}

// NewServerService builds the supervised wrapper around an HTTP server.
func NewServerService(server HTTPServer, addr string, shutdownTimeout time.Duration) *ServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ServerService{server: server, addr: addr, shutdownTimeout: shutdownTimeout}
}

// NewServer constructs the http.Server for the read API with the usual
// timeouts applied, ready to wrap in NewServerService.
func NewServer(addr string, handler http.Handler, timeout time.Duration) *http.Server {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		// WriteTimeout would sever long-lived websocket connections, so
		// only the read side is bounded here.
		IdleTimeout: 120 * time.Second,
	}
}

// Serve implements suture.Service. Returns nil only when the server
// closes without error; http.ErrServerClosed is treated as clean.
func (s *ServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logging.Info().Str("addr", s.addr).Msg("http server listening")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// The serve context is already canceled; shutdown gets its own
		// deadline.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		logging.Info().Str("addr", s.addr).Msg("http server stopped")
		return ctx.Err()
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *ServerService) String() string {
	return "http-server"
}
