// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import "time"

// historySlots is the fixed number of hourly buckets in the history
// series. Every keyword's series has exactly this many points.
const historySlots = 24

// historicalDivisor converts a 24-hour keyword count into the mean used
// by the growth formula. 48 corresponds to 30-minute sub-buckets from a
// legacy layout; downstream dashboards calibrate against it, so it stays.
const historicalDivisor = 48.0

// Windows holds the per-pass time geometry, anchored on the newest
// record rather than the wall clock so replayed data analyzes the same.
type Windows struct {
	// Latest is T_last, the max created_at across records.
	Latest time.Time
	// CurrentStart opens the current window [Latest - W_c, Latest].
	CurrentStart time.Time
	// HistoryStart opens the historical window for the growth baseline.
	HistoryStart time.Time
	// End is Latest rounded up to the next whole hour; the 24 hourly
	// buckets end here.
	End time.Time
}

// Bucket is one half-open hourly slot [Start, End).
type Bucket struct {
	Start time.Time
	End   time.Time
}

// ComputeWindows derives the pass geometry from the record set. With no
// records everything anchors on now.
func ComputeWindows(records []Record, currentWindow time.Duration, historyWindow time.Duration, now time.Time) Windows {
	latest := now.UTC()
	if len(records) > 0 {
		latest = records[0].CreatedAt
		for _, r := range records[1:] {
			if r.CreatedAt.After(latest) {
				latest = r.CreatedAt
			}
		}
	}

	end := latest.Truncate(time.Hour)
	if end.Before(latest) {
		end = end.Add(time.Hour)
	}

	return Windows{
		Latest:       latest,
		CurrentStart: latest.Add(-currentWindow),
		HistoryStart: latest.Add(-historyWindow),
		End:          end,
	}
}

// InCurrent reports whether t falls in the current window.
func (w Windows) InCurrent(t time.Time) bool {
	return !t.Before(w.CurrentStart)
}

// InHistory reports whether t falls in the historical baseline window,
// which excludes the current window.
func (w Windows) InHistory(t time.Time) bool {
	return !t.Before(w.HistoryStart) && t.Before(w.CurrentStart)
}

// Buckets returns the 24 hourly slots ending at w.End, oldest first.
func (w Windows) Buckets() []Bucket {
	buckets := make([]Bucket, historySlots)
	start := w.End.Add(-historySlots * time.Hour)
	for i := range buckets {
		buckets[i] = Bucket{
			Start: start.Add(time.Duration(i) * time.Hour),
			End:   start.Add(time.Duration(i+1) * time.Hour),
		}
	}
	return buckets
}

// Contains reports t ∈ [b.Start, b.End).
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}
