// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package scraper

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/models"
)

// SpoolCrawler ingests JSON drops left in a directory by external
// crawler adapters that run out of process. Each *.json file holds an
// array of raw items; a consumed file is renamed to *.json.done so a
// crash between read and push re-ingests rather than loses (the cleaner
// dedups the overlap).
type SpoolCrawler struct {
	dir string
}

// NewSpoolCrawler builds the crawler over one drop directory.
func NewSpoolCrawler(dir string) *SpoolCrawler {
	return &SpoolCrawler{dir: dir}
}

func (s *SpoolCrawler) Name() string { return "spool" }

// Crawl reads every pending drop file in name order. A malformed file is
// counted as an error and renamed aside so it cannot wedge the stage.
func (s *SpoolCrawler) Crawl(ctx context.Context) ([]models.RawItem, Stats, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, Stats{"errors": 1}, err
	}
	sort.Strings(matches)

	var items []models.RawItem
	stats := Stats{}
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return items, stats, err
		}
		batch, err := readDrop(path)
		if err != nil {
			stats["errors"]++
			logging.Warn().Err(err).Str("file", path).Msg("spool drop unreadable")
		} else {
			items = append(items, batch...)
			stats["items"] += len(batch)
		}
		if err := os.Rename(path, path+".done"); err != nil {
			logging.Warn().Err(err).Str("file", path).Msg("spool drop rename failed")
		}
	}
	return items, stats, nil
}

func readDrop(path string) ([]models.RawItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []models.RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
