package scorer

import (
	"testing"

	"github.com/qna-scoring/backend/internal/models"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(DefaultWeights())
	if err != nil {
		t.Fatalf("NewAggregator failed: %v", err)
	}
	return agg
}

func TestNewAggregator_RejectsBadWeightSum(t *testing.T) {
	w := DefaultWeights()
	w.Clarity = 0.5 // sum is now 1.3
	if _, err := NewAggregator(w); err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}
}

func TestNewAggregator_RejectsNegativeWeight(t *testing.T) {
	w := Weights{Clarity: -0.2, Grounding: 0.45, Diversity: 0.15, Difficulty: 0.3, Length: 0.3}
	if _, err := NewAggregator(w); err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestOverall_FixedWeightCombination(t *testing.T) {
	agg := newTestAggregator(t)

	m := MetricSet{Clarity: 0.8, Grounding: 0.9, Diversity: 0.5, Difficulty: 0.4, Length: 1.0}
	// 0.20*0.8 + 0.25*0.9 + 0.15*0.5 + 0.20*0.4 + 0.20*1.0 = 0.740
	if got := agg.Overall(m); !almostEqual(got, 0.740) {
		t.Errorf("overall = %f, want 0.740", got)
	}
}

func TestOverall_Extremes(t *testing.T) {
	agg := newTestAggregator(t)

	if got := agg.Overall(MetricSet{}); !almostEqual(got, 0.0) {
		t.Errorf("all-zero metrics: overall = %f, want 0.0", got)
	}
	all1 := MetricSet{Clarity: 1, Grounding: 1, Diversity: 1, Difficulty: 1, Length: 1}
	if got := agg.Overall(all1); !almostEqual(got, 1.0) {
		t.Errorf("all-one metrics: overall = %f, want 1.0", got)
	}
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		difficulty float64
		expected   models.Tier
	}{
		{0.0, models.TierEasy},
		{0.32, models.TierEasy},
		{0.33, models.TierMedium}, // inclusive on the upper side
		{0.66, models.TierMedium},
		{0.67, models.TierHard},
		{1.0, models.TierHard},
	}
	for _, tt := range tests {
		if got := TierFor(tt.difficulty); got != tt.expected {
			t.Errorf("TierFor(%f) = %q, want %q", tt.difficulty, got, tt.expected)
		}
	}
}

func TestRecommendationFor_Ordering(t *testing.T) {
	tests := []struct {
		name               string
		overall, grounding float64
		expected           models.Recommendation
	}{
		{"strong pair", 0.80, 0.65, models.RecommendationKeep},
		{"high overall but weak grounding", 0.80, 0.50, models.RecommendationReview},
		{"poor grounding forces review", 0.50, 0.30, models.RecommendationReview},
		{"mediocre everywhere", 0.45, 0.50, models.RecommendationFlag},
		{"keep boundary", 0.75, 0.60, models.RecommendationKeep},
		{"review boundary on overall", 0.60, 0.55, models.RecommendationReview},
		{"just below every threshold", 0.59, 0.40, models.RecommendationFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendationFor(tt.overall, tt.grounding)
			if got != tt.expected {
				t.Errorf("RecommendationFor(%f, %f) = %q, want %q",
					tt.overall, tt.grounding, got, tt.expected)
			}
		})
	}
}

func TestAggregate_BuildsScoredPair(t *testing.T) {
	agg := newTestAggregator(t)

	pair := models.Pair{Question: "Q", Answer: "A"}
	m := MetricSet{Clarity: 0.8, Grounding: 0.9, Diversity: 0.5, Difficulty: 0.4, Length: 1.0}
	est := Estimate{
		Difficulty:  0.4,
		Conditioned: 0.6,
		Direct:      0.8,
		Method:      models.MethodJudged,
		Value:       models.ValueMedium,
	}

	sp := agg.Aggregate(pair, m, est)

	if sp.Question != "Q" || sp.Answer != "A" {
		t.Error("pair fields not carried over")
	}
	if !almostEqual(sp.Overall(), 0.740) {
		t.Errorf("overall = %f, want 0.740", sp.Overall())
	}
	if sp.Tier != models.TierMedium {
		t.Errorf("tier = %q, want medium", sp.Tier)
	}
	if sp.Recommendation != models.RecommendationReview {
		t.Errorf("recommendation = %q, want review", sp.Recommendation)
	}
	if sp.Method != models.MethodJudged || sp.ValueCategory != models.ValueMedium {
		t.Error("estimate metadata not carried over")
	}
	for _, name := range models.BaseMetrics {
		if v, ok := sp.Scores[name]; !ok || v < 0 || v > 1 {
			t.Errorf("score %q missing or out of range: %f", name, v)
		}
	}
}

func TestConfidenceFor(t *testing.T) {
	// Perfect agreement across dimensions.
	uniform := MetricSet{Clarity: 0.7, Grounding: 0.7, Diversity: 0.7, Difficulty: 0.7, Length: 0.7}
	conf, level := confidenceFor(uniform)
	if !almostEqual(conf, 1.0) || level != models.ConfidenceHigh {
		t.Errorf("uniform metrics: confidence = %f (%q), want 1.0 (high)", conf, level)
	}

	// Mixed metrics: population variance 0.0536, confidence 0.9464.
	mixed := MetricSet{Clarity: 0.8, Grounding: 0.9, Diversity: 0.5, Difficulty: 0.4, Length: 1.0}
	conf, level = confidenceFor(mixed)
	if !almostEqual(conf, 0.9464) {
		t.Errorf("mixed metrics: confidence = %f, want 0.9464", conf)
	}
	if level != models.ConfidenceMedium {
		t.Errorf("mixed metrics: level = %q, want medium", level)
	}

	// Total disagreement.
	split := MetricSet{Clarity: 0.0, Grounding: 1.0, Diversity: 0.0, Difficulty: 1.0, Length: 0.0}
	conf, level = confidenceFor(split)
	if level != models.ConfidenceLow {
		t.Errorf("split metrics: level = %q, want low", level)
	}
	if conf < 0 || conf > 1 {
		t.Errorf("confidence out of range: %f", conf)
	}
}
