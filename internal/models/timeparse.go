// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package models

import (
	"strconv"
	"strings"
	"time"
)

// TimeLayoutZ is the canonical wire format for timestamps: ISO-8601 UTC,
// second precision, trailing Z.
const TimeLayoutZ = "2006-01-02T15:04:05Z"

// timeFields lists the publication-instant fields a raw record may carry,
// in lookup priority order.
var timeFields = []string{
	"created_at", "created_utc", "published", "published_at",
	"timestamp", "time", "datetime", "date",
}

// fallbackLayouts are the non-ISO formats crawlers have been observed to emit.
var fallbackLayouts = []string{
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseFlexibleTime parses a publication instant that may be a UNIX
// seconds number (int or float, possibly as a string), an ISO-8601 string
// with or without Z, or one of several common layouts. The second return
// is false when nothing parses.
func ParseFlexibleTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case float64:
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		return time.Unix(v, 0).UTC(), true
	case int:
		return time.Unix(int64(v), 0).UTC(), true
	case string:
		return parseTimeString(v)
	default:
		return time.Time{}, false
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Numeric strings are UNIX seconds.
	if isNumeric(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return time.Unix(int64(f), 0).UTC(), true
		}
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isNumeric(s string) bool {
	dot := false
	for _, r := range s {
		if r == '.' {
			if dot {
				return false
			}
			dot = true
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// FormatUTC renders t in the canonical wire format.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(TimeLayoutZ)
}

// PublicationTime extracts the publication instant from a raw record by
// probing the known field names in priority order.
func (r RawItem) PublicationTime() (time.Time, bool) {
	for _, f := range timeFields {
		v, ok := r[f]
		if !ok || v == nil {
			continue
		}
		if t, ok := ParseFlexibleTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
