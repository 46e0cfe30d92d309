// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/tickerwire/tickerwire/internal/models"
)

// FingerprintKind records which rule produced a fingerprint. The cleaner
// reuses source-id and URL fingerprints as the item id; hash fingerprints
// get a synthetic id instead.
type FingerprintKind int

const (
	FingerprintSourceID FingerprintKind = iota
	FingerprintURL
	FingerprintHash
)

// FingerprintItem derives the dedup identity of a raw item:
// origin-native id first, then URL, then md5 over title and source.
// The hash rule always yields a value, so every item fingerprints.
func FingerprintItem(item models.RawItem) (string, FingerprintKind) {
	if id := item.SourceID(); id != "" {
		return id, FingerprintSourceID
	}
	if url := item.String("url"); url != "" {
		return url, FingerprintURL
	}
	sum := md5.Sum([]byte(item.String("title") + "_" + item.String("source")))
	return hex.EncodeToString(sum[:]), FingerprintHash
}
