package scorer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/qna-scoring/backend/internal/models"
)

// Weights is the aggregation policy: one weight per base metric. The
// defaults are fixed policy — callers may construct other weight sets, but
// they must sum to 1 so the overall score stays in [0, 1].
type Weights struct {
	Clarity    float64
	Grounding  float64
	Diversity  float64
	Difficulty float64
	Length     float64
}

func DefaultWeights() Weights {
	return Weights{
		Clarity:    0.20,
		Grounding:  0.25,
		Diversity:  0.15,
		Difficulty: 0.20,
		Length:     0.20,
	}
}

// MetricSet holds the five base metric values for one pair.
type MetricSet struct {
	Clarity    float64
	Grounding  float64
	Diversity  float64
	Difficulty float64
	Length     float64
}

func (m MetricSet) values() []float64 {
	return []float64{m.Clarity, m.Grounding, m.Diversity, m.Difficulty, m.Length}
}

// Aggregator combines base metrics into the overall score, tier, and
// recommendation.
type Aggregator struct {
	weights Weights
}

// NewAggregator rejects weight sets that do not sum to 1 — a misweighted
// policy would silently push overall scores out of range, so it fails at
// construction, not per pair.
func NewAggregator(w Weights) (*Aggregator, error) {
	sum := w.Clarity + w.Grounding + w.Diversity + w.Difficulty + w.Length
	if math.Abs(sum-1.0) > 1e-9 {
		return nil, fmt.Errorf("aggregation weights sum to %.6f, want 1.0", sum)
	}
	for _, v := range []float64{w.Clarity, w.Grounding, w.Diversity, w.Difficulty, w.Length} {
		if v < 0 {
			return nil, fmt.Errorf("aggregation weight %.6f is negative", v)
		}
	}
	return &Aggregator{weights: w}, nil
}

// Overall is the weighted linear combination of the base metrics.
func (a *Aggregator) Overall(m MetricSet) float64 {
	w := a.weights
	return clamp01(
		w.Clarity*m.Clarity +
			w.Grounding*m.Grounding +
			w.Diversity*m.Diversity +
			w.Difficulty*m.Difficulty +
			w.Length*m.Length,
	)
}

// TierFor buckets a difficulty score. Breakpoints are inclusive on the
// upper side: 0.33 is medium, 0.67 is hard.
func TierFor(difficulty float64) models.Tier {
	if difficulty < 0.33 {
		return models.TierEasy
	}
	if difficulty < 0.67 {
		return models.TierMedium
	}
	return models.TierHard
}

// RecommendationFor derives the curation verdict from overall quality and
// grounding alone. The checks run strictly in order: a pair with high
// overall but weak grounding must land in review, not keep, and a pair
// with grounding below 0.4 is always worth a human look.
func RecommendationFor(overall, grounding float64) models.Recommendation {
	if overall >= 0.75 && grounding >= 0.6 {
		return models.RecommendationKeep
	}
	if overall >= 0.6 || grounding < 0.4 {
		return models.RecommendationReview
	}
	return models.RecommendationFlag
}

// Aggregate assembles the final ScoredPair from base metrics and the
// difficulty estimate. The input pair is copied, never mutated.
func (a *Aggregator) Aggregate(pair models.Pair, m MetricSet, est Estimate) models.ScoredPair {
	overall := a.Overall(m)
	confidence, level := confidenceFor(m)

	return models.ScoredPair{
		Pair: pair,
		Scores: map[string]float64{
			models.MetricClarity:    m.Clarity,
			models.MetricGrounding:  m.Grounding,
			models.MetricDiversity:  m.Diversity,
			models.MetricDifficulty: m.Difficulty,
			models.MetricLength:     m.Length,
			models.MetricOverall:    overall,
		},
		Tier:             TierFor(m.Difficulty),
		Recommendation:   RecommendationFor(overall, m.Grounding),
		Method:           est.Method,
		ConditionedScore: est.Conditioned,
		DirectScore:      est.Direct,
		ValueCategory:    est.Value,
		Confidence:       confidence,
		ConfidenceLevel:  level,
	}
}

// confidenceFor turns cross-metric agreement into a confidence signal: low
// variance across the five base scores means the dimensions agree, so the
// aggregate can be trusted more.
func confidenceFor(m MetricSet) (float64, models.ConfidenceLevel) {
	variance := stat.PopVariance(m.values(), nil)
	confidence := 1.0 - math.Min(variance, 1.0)

	switch {
	case confidence >= 0.98:
		return confidence, models.ConfidenceHigh
	case confidence >= 0.93:
		return confidence, models.ConfidenceMedium
	default:
		return confidence, models.ConfidenceLow
	}
}
