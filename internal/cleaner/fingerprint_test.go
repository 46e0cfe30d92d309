// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/tickerwire/tickerwire/internal/models"
)

func TestFingerprintItem(t *testing.T) {
	tests := []struct {
		name     string
		item     models.RawItem
		want     string
		wantKind FingerprintKind
	}{
		{
			name:     "source id wins over url",
			item:     models.RawItem{"id": "abc123", "url": "https://x.test/a"},
			want:     "abc123",
			wantKind: FingerprintSourceID,
		},
		{
			name:     "post_id counts as source id",
			item:     models.RawItem{"post_id": "t3_xyz", "url": "https://x.test/a"},
			want:     "t3_xyz",
			wantKind: FingerprintSourceID,
		},
		{
			name:     "url when no id",
			item:     models.RawItem{"url": "https://x.test/article", "title": "T"},
			want:     "https://x.test/article",
			wantKind: FingerprintURL,
		},
		{
			name:     "hash fallback",
			item:     models.RawItem{"title": "Fed raises rates", "source": "rss"},
			want:     md5hex("Fed raises rates_rss"),
			wantKind: FingerprintHash,
		},
		{
			name:     "hash of empty fields still fingerprints",
			item:     models.RawItem{},
			want:     md5hex("_"),
			wantKind: FingerprintHash,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := FingerprintItem(tt.item)
			if got != tt.want {
				t.Errorf("fingerprint = %q, want %q", got, tt.want)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", kind, tt.wantKind)
			}
		})
	}
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
