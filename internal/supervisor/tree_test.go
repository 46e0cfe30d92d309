// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// blockingService runs until its context is canceled and counts starts.
type blockingService struct {
	name   string
	starts atomic.Int64
}

func (s *blockingService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *blockingService) String() string { return s.name }

func TestDefaultTreeConfig(t *testing.T) {
	cfg := DefaultTreeConfig()
	if cfg.FailureThreshold != 5.0 || cfg.FailureDecay != 30.0 {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.FailureBackoff != 15*time.Second || cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("config = %+v", cfg)
	}
}

func TestNewTreeZeroConfig(t *testing.T) {
	tree := NewTree("tickerwire-test", TreeConfig{})
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("threshold = %v, want the default", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v, want the default", tree.config.ShutdownTimeout)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor missing")
	}
}

func TestTreeLifecycle(t *testing.T) {
	tree := NewTree("tickerwire-test", DefaultTreeConfig())

	pipeline := &blockingService{name: "pipeline-worker"}
	messaging := &blockingService{name: "messaging-worker"}
	api := &blockingService{name: "api-worker"}
	tree.AddPipelineService(pipeline)
	tree.AddMessagingService(messaging)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for pipeline.starts.Load() == 0 || messaging.starts.Load() == 0 || api.starts.Load() == 0 {
		select {
		case <-deadline:
			t.Fatalf("services not started: pipeline=%d messaging=%d api=%d",
				pipeline.starts.Load(), messaging.starts.Load(), api.starts.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("tree returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}

	report, err := tree.UnstoppedServiceReport()
	if err != nil {
		t.Fatalf("UnstoppedServiceReport() = %v", err)
	}
	if len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestTreeRestartsFailedService(t *testing.T) {
	tree := NewTree("tickerwire-test", TreeConfig{
		FailureThreshold: 50,
		FailureDecay:     30,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	svc := &flappingService{fails: 2, settled: make(chan struct{})}
	tree.AddPipelineService(svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	select {
	case <-svc.settled:
	case <-time.After(5 * time.Second):
		t.Fatalf("service never recovered, starts=%d", svc.starts.Load())
	}
	if got := svc.starts.Load(); got != 3 {
		t.Errorf("starts = %d, want 3 (two failures then recovery)", got)
	}

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("tree did not stop")
	}
}

// flappingService fails its first runs, then blocks until canceled.
type flappingService struct {
	fails   int
	starts  atomic.Int64
	settled chan struct{}
	once    atomic.Bool
}

func (s *flappingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if int(n) <= s.fails {
		return errors.New("transient failure")
	}
	if s.once.CompareAndSwap(false, true) {
		close(s.settled)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *flappingService) String() string { return "flapping-service" }
