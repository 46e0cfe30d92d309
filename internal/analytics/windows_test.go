// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"testing"
	"time"
)

func TestComputeWindows(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("anchored on the newest record", func(t *testing.T) {
		latest := time.Date(2026, 3, 15, 9, 42, 10, 0, time.UTC)
		records := []Record{
			{CreatedAt: latest.Add(-2 * time.Hour)},
			{CreatedAt: latest},
			{CreatedAt: latest.Add(-30 * time.Minute)},
		}
		w := ComputeWindows(records, time.Hour, 24*time.Hour, now)

		if !w.Latest.Equal(latest) {
			t.Errorf("Latest = %v", w.Latest)
		}
		if !w.CurrentStart.Equal(latest.Add(-time.Hour)) {
			t.Errorf("CurrentStart = %v", w.CurrentStart)
		}
		if !w.HistoryStart.Equal(latest.Add(-24 * time.Hour)) {
			t.Errorf("HistoryStart = %v", w.HistoryStart)
		}
		// End rounds up to the next whole hour.
		if !w.End.Equal(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("End = %v", w.End)
		}
	})

	t.Run("whole-hour latest does not round up", func(t *testing.T) {
		latest := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
		w := ComputeWindows([]Record{{CreatedAt: latest}}, time.Hour, 24*time.Hour, now)
		if !w.End.Equal(latest) {
			t.Errorf("End = %v, want %v", w.End, latest)
		}
	})

	t.Run("no records anchor on now", func(t *testing.T) {
		w := ComputeWindows(nil, time.Hour, 24*time.Hour, now)
		if !w.Latest.Equal(now) {
			t.Errorf("Latest = %v", w.Latest)
		}
	})
}

func TestWindowMembership(t *testing.T) {
	latest := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	w := ComputeWindows([]Record{{CreatedAt: latest}}, time.Hour, 24*time.Hour, latest)

	tests := []struct {
		name      string
		t         time.Time
		inCurrent bool
		inHistory bool
	}{
		{"at latest", latest, true, false},
		{"inside current", latest.Add(-30 * time.Minute), true, false},
		{"current boundary inclusive", latest.Add(-time.Hour), true, false},
		{"just past current", latest.Add(-61 * time.Minute), false, true},
		{"deep history", latest.Add(-23 * time.Hour), false, true},
		{"history boundary inclusive", latest.Add(-24 * time.Hour), false, true},
		{"before history", latest.Add(-25 * time.Hour), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.InCurrent(tt.t); got != tt.inCurrent {
				t.Errorf("InCurrent = %v, want %v", got, tt.inCurrent)
			}
			if got := w.InHistory(tt.t); got != tt.inHistory {
				t.Errorf("InHistory = %v, want %v", got, tt.inHistory)
			}
		})
	}
}

func TestBuckets(t *testing.T) {
	latest := time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC)
	w := ComputeWindows([]Record{{CreatedAt: latest}}, time.Hour, 24*time.Hour, latest)

	buckets := w.Buckets()
	if len(buckets) != 24 {
		t.Fatalf("bucket count = %d, want 24", len(buckets))
	}

	// Contiguous, hour-wide, ending at w.End.
	for i, b := range buckets {
		if b.End.Sub(b.Start) != time.Hour {
			t.Errorf("bucket %d width = %v", i, b.End.Sub(b.Start))
		}
		if i > 0 && !b.Start.Equal(buckets[i-1].End) {
			t.Errorf("bucket %d not contiguous", i)
		}
	}
	if !buckets[23].End.Equal(w.End) {
		t.Errorf("last bucket ends %v, want %v", buckets[23].End, w.End)
	}

	// Half-open membership.
	b := buckets[23]
	if !b.Contains(b.Start) {
		t.Error("start should be inside")
	}
	if b.Contains(b.End) {
		t.Error("end should be outside")
	}
}
