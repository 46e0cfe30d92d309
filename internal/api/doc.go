// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

// Package api exposes the analytics snapshot over HTTP using the Chi
// router. The surface is pure-read: every endpoint serves whatever the
// analytics stage last published, with empty-shape defaults when no
// snapshot exists yet. Live updates go out over /ws/{channel}.
package api
