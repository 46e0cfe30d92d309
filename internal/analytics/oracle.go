// Tickerwire - Financial News & Social Sentiment Pipeline
// Copyright 2026 Tickerwire Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tickerwire/tickerwire

package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tickerwire/tickerwire/internal/logging"
	"github.com/tickerwire/tickerwire/internal/metrics"
	"github.com/tickerwire/tickerwire/internal/models"
)

// SentimentOracle labels a batch of texts. Each output slot is Bullish,
// Bearish, or "" when the oracle cannot decide; slot i answers texts[i].
type SentimentOracle interface {
	Name() string
	PredictBatch(ctx context.Context, texts []string) ([]string, error)
}

// HeuristicOracle is the rule-based fallback: count lexicon hits and
// label by the majority side. It never errs and never opens the breaker.
type HeuristicOracle struct{}

var (
	bullishWords = []string{"bull", "bullish", "long", "rally", "up", "moon", "buy", "gain", "rise", "win"}
	bearishWords = []string{"bear", "bearish", "short", "dump", "down", "sell", "loss", "fall", "crash"}
)

func (HeuristicOracle) Name() string { return "heuristic" }

func (HeuristicOracle) PredictBatch(_ context.Context, texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = heuristicLabel(text)
	}
	return out, nil
}

func heuristicLabel(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	var bullish, bearish int
	for _, w := range bullishWords {
		if strings.Contains(lower, w) {
			bullish++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(lower, w) {
			bearish++
		}
	}
	switch {
	case bullish > bearish:
		return models.SentimentBullish
	case bearish > bullish:
		return models.SentimentBearish
	default:
		return ""
	}
}

// BreakerOracle shields a remote oracle behind a circuit breaker. When
// the breaker is open, or the call fails and fallback is enabled, the
// heuristic answers instead so a pass never stalls on the model.
type BreakerOracle struct {
	inner    SentimentOracle
	fallback bool
	breaker  *gobreaker.CircuitBreaker[[]string]
}

// NewBreakerOracle wraps inner. With fallback false, failures surface to
// the caller once the heuristic cannot stand in.
func NewBreakerOracle(inner SentimentOracle, fallback bool) *BreakerOracle {
	settings := gobreaker.Settings{
		Name:    "sentiment-oracle",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, breakerStateValue(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("sentiment oracle breaker state change")
		},
	}
	return &BreakerOracle{
		inner:    inner,
		fallback: fallback,
		breaker:  gobreaker.NewCircuitBreaker[[]string](settings),
	}
}

func breakerStateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (b *BreakerOracle) Name() string { return b.inner.Name() }

func (b *BreakerOracle) PredictBatch(ctx context.Context, texts []string) ([]string, error) {
	start := time.Now()
	labels, err := b.breaker.Execute(func() ([]string, error) {
		return b.inner.PredictBatch(ctx, texts)
	})
	if err == nil {
		metrics.RecordSentimentBatch(b.inner.Name(), labels, time.Since(start))
		return labels, nil
	}
	if !b.fallback {
		return nil, err
	}
	logging.Warn().Err(err).Str("oracle", b.inner.Name()).Msg("oracle unavailable, heuristic fallback")
	return HeuristicOracle{}.PredictBatch(ctx, texts)
}
