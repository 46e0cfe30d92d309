// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package fabric is the coordination layer between pipeline stages.
//
// Stages never call each other; completion of a pass is announced on a
// pub/sub channel and the downstream stage reacts. When notifications
// are disabled the listener degrades to a poll timer, so a stage makes
// forward progress either way.
//
// Every blocking receive is bounded to at most one second so that
// context cancellation (SIGINT/SIGTERM) is observed promptly. A worker
// that is mid-pass finishes its batch before draining.
package fabric
