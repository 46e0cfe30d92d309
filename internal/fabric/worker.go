// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package fabric

import (
	"context"
	"time"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
)

// State is the lifecycle of a stage worker.
type State string

const (
	StateInit       State = "init"
	StateConnected  State = "connected"
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateDraining   State = "draining"
	StateStopped    State = "stopped"
)

// PassFunc executes one pass of a stage against the current queue
// contents. Errors are logged by the worker; a failed pass never stops
// the loop; the next tick re-triggers.
type PassFunc func(ctx context.Context, trigger models.Notification) error

// Worker drives a stage: wait for a tick, run one pass, repeat. It
// implements suture.Service so a crash is restarted by the supervisor.
type Worker struct {
	name     string
	listener *Listener
	pass     PassFunc

	// runOnStart triggers an immediate pass before entering the wait
	// loop, so a restart catches up on anything missed while down.
	runOnStart bool

	state State
}

// NewWorker builds a stage worker around a listener and a pass function.
func NewWorker(name string, listener *Listener, pass PassFunc, runOnStart bool) *Worker {
	return &Worker{
		name:       name,
		listener:   listener,
		pass:       pass,
		runOnStart: runOnStart,
		state:      StateInit,
	}
}

// String implements fmt.Stringer for supervisor logs.
func (w *Worker) String() string { return w.name }

// Serve implements suture.Service. The worker moves through
// INIT → CONNECTED → (IDLE ⇄ PROCESSING) → DRAINING → STOPPED; an
// in-flight pass always completes before draining.
func (w *Worker) Serve(ctx context.Context) error {
	w.transition(StateConnected)
	defer func() {
		w.listener.Close()
		w.transition(StateStopped)
	}()

	if w.runOnStart {
		w.runPass(ctx, models.Notification{})
	}

	for {
		w.transition(StateIdle)
		tick, err := w.listener.WaitOrPoll(ctx)
		if err != nil {
			w.transition(StateDraining)
			return err
		}
		w.runPass(ctx, tick.Notification)
	}
}

// RunOnce executes a single pass and returns; used by --mode once.
func (w *Worker) RunOnce(ctx context.Context) error {
	w.transition(StateProcessing)
	start := time.Now()
	err := w.pass(ctx, models.Notification{})
	metrics.RecordPass(w.name, time.Since(start), err)
	w.transition(StateStopped)
	return err
}

func (w *Worker) runPass(ctx context.Context, trigger models.Notification) {
	w.transition(StateProcessing)
	start := time.Now()
	err := w.pass(ctx, trigger)
	metrics.RecordPass(w.name, time.Since(start), err)
	if err != nil {
		logging.Error().Err(err).
			Str("worker", w.name).
			Dur("elapsed", time.Since(start)).
			Msg("pass failed")
		return
	}
	logging.Debug().
		Str("worker", w.name).
		Dur("elapsed", time.Since(start)).
		Msg("pass completed")
}

func (w *Worker) transition(next State) {
	if w.state == next {
		return
	}
	logging.Debug().
		Str("worker", w.name).
		Str("from", string(w.state)).
		Str("to", string(next)).
		Msg("worker state change")
	w.state = next
}
