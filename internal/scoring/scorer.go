package scoring

import (
	"context"
	"strconv"
	"strings"

	"github.com/mindcarehq/mindcare/internal/circuitbreaker"
	"github.com/mindcarehq/mindcare/internal/llm"
	"github.com/mindcarehq/mindcare/internal/logging"
	"github.com/mindcarehq/mindcare/internal/metrics"
	"github.com/mindcarehq/mindcare/internal/traces"
)

// BreakerKey identifies the scoring upstream in the shared circuit breaker.
const BreakerKey = "scoring"

// Scoring wants deterministic numeric output, so temperature stays low
// and the model only needs a handful of tokens to answer.
const (
	scoringTemperature = 0.1
	scoringMaxTokens   = 10
)

// Scorer assesses a single message. It never returns an error: every
// failure mode collapses into either a 0 score (contract violation) or
// an Unavailable result (assessment never happened).
type Scorer struct {
	client  llm.Client
	breaker *circuitbreaker.Breaker
}

// NewScorer builds a Scorer. A nil client means scoring is not
// configured; every assessment comes back Unavailable. The breaker is
// optional.
func NewScorer(client llm.Client, breaker *circuitbreaker.Breaker) *Scorer {
	return &Scorer{client: client, breaker: breaker}
}

// Assess scores one message against the rubric.
func (s *Scorer) Assess(ctx context.Context, text string) Score {
	if strings.TrimSpace(text) == "" {
		// Nothing to assess; don't waste an upstream call.
		metrics.ScoringResultsTotal.WithLabelValues("skipped_empty").Inc()
		return NoScore()
	}
	if s.client == nil {
		metrics.ScoringResultsTotal.WithLabelValues("unavailable").Inc()
		return NoScore()
	}
	if s.breaker != nil && !s.breaker.Allow(BreakerKey) {
		logging.L(ctx).Warn("scoring skipped, circuit open")
		metrics.ScoringResultsTotal.WithLabelValues("unavailable").Inc()
		return NoScore()
	}

	ctx, span := traces.StartSpan(ctx, "scoring.assess")
	defer span.End()

	raw, err := s.client.Complete(ctx, llm.Request{
		System:      rubricPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: text}},
		Temperature: scoringTemperature,
		MaxTokens:   scoringMaxTokens,
	})
	if err != nil {
		if s.breaker != nil {
			s.breaker.RecordFailure(BreakerKey)
		}
		logging.L(ctx).Warn("scoring unavailable", "error", err)
		metrics.ScoringResultsTotal.WithLabelValues("unavailable").Inc()
		return NoScore()
	}
	if s.breaker != nil {
		s.breaker.RecordSuccess(BreakerKey)
	}

	// The model answered. From here on the assessment happened; a bad
	// answer is a contract violation, not an unavailable upstream.
	answer := strings.TrimSpace(raw)
	value, perr := strconv.Atoi(answer)
	if perr != nil || !InRange(value) {
		logging.L(ctx).Warn("scoring answer out of contract", "answer", answer)
		metrics.ScoringResultsTotal.WithLabelValues("out_of_contract").Inc()
		return Scored(0)
	}

	span.SetAttributes(traces.ScoreValue(value), traces.ScoreBand(metrics.Band(value)))
	metrics.ScoringResultsTotal.WithLabelValues("scored").Inc()
	metrics.ScoreBandTotal.WithLabelValues(metrics.Band(value)).Inc()
	return Scored(value)
}
