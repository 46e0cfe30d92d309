// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package cleaner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/models"
)

// Exporter appends each pass's cleaned items to a per-day JSONL file.
// The dump is a debugging aid; export failures never fail a pass.
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter creates the export directory if needed.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Exporter{dir: dir, now: time.Now}, nil
}

// Export appends items, one JSON object per line.
func (e *Exporter) Export(items []models.CleanItem) error {
	name := filepath.Join(e.dir, "clean_"+e.now().UTC().Format("20060102")+".jsonl")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i := range items {
		if err := enc.Encode(&items[i]); err != nil {
			return err
		}
	}
	logging.Debug().Str("file", name).Int("items", len(items)).Msg("clean items exported")
	return nil
}
