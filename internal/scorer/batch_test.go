package scorer

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/qna-scoring/backend/internal/models"
)

func newHeuristicScorer(t *testing.T) *Scorer {
	t.Helper()
	m := newTestMetrics(t)
	agg := newTestAggregator(t)
	return NewScorer(m, agg, NewHeuristicEstimator(m), 2)
}

var batchSource = "Paris is the capital of France. Plants convert sunlight into chemical energy through photosynthesis in their leaves."

var testBatch = []models.Pair{
	{Question: "What is the capital of France?", Answer: "Paris is the capital of France."},
	{Question: "What is the capital of France??", Answer: "The capital of France is Paris."},
	{Question: "How do plants convert sunlight into energy?", Answer: "Plants convert sunlight into chemical energy through photosynthesis in their leaves."},
}

func TestScoreBatch_EveryPairScored(t *testing.T) {
	s := newHeuristicScorer(t)

	scored, stats, err := s.ScoreBatch(context.Background(), testBatch, batchSource)
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}
	if len(scored) != len(testBatch) {
		t.Fatalf("expected %d scored pairs, got %d", len(testBatch), len(scored))
	}
	if stats.Count != len(testBatch) {
		t.Errorf("stats count = %d, want %d", stats.Count, len(testBatch))
	}

	for i, sp := range scored {
		if sp.Question != testBatch[i].Question {
			t.Errorf("pair %d: input order not preserved", i)
		}
		for name, v := range sp.Scores {
			if v < 0 || v > 1 {
				t.Errorf("pair %d: score %q = %f out of [0,1]", i, name, v)
			}
		}
		if !models.ValidTiers[sp.Tier] {
			t.Errorf("pair %d: invalid tier %q", i, sp.Tier)
		}
		if !models.ValidRecommendations[sp.Recommendation] {
			t.Errorf("pair %d: invalid recommendation %q", i, sp.Recommendation)
		}
	}
}

func TestScoreBatch_NearDuplicateDiversity(t *testing.T) {
	s := newHeuristicScorer(t)

	scored, _, err := s.ScoreBatch(context.Background(), testBatch, batchSource)
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}

	divA := scored[0].Scores[models.MetricDiversity]
	divB := scored[1].Scores[models.MetricDiversity]
	divC := scored[2].Scores[models.MetricDiversity]

	if divA > 0.1 || divB > 0.1 {
		t.Errorf("near-duplicate questions should score near zero diversity, got %f and %f", divA, divB)
	}
	if divC < 0.5 {
		t.Errorf("unrelated question should score high diversity, got %f", divC)
	}
}

func TestScoreBatch_DiversityExcludesSelf(t *testing.T) {
	s := newHeuristicScorer(t)

	// A single-pair batch compares against nothing, so its question is
	// trivially unique even though it sits in the snapshot.
	scored, _, err := s.ScoreBatch(context.Background(), testBatch[:1], batchSource)
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}
	if got := scored[0].Scores[models.MetricDiversity]; got != 1.0 {
		t.Errorf("diversity = %f, want 1.0 for single-pair batch", got)
	}
}

func TestScoreBatch_Idempotent(t *testing.T) {
	s := newHeuristicScorer(t)

	first, _, err := s.ScoreBatch(context.Background(), testBatch, batchSource)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	second, _, err := s.ScoreBatch(context.Background(), testBatch, batchSource)
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("scoring the same batch twice produced different results")
	}
}

func TestScoreBatch_MalformedPairPenalized(t *testing.T) {
	s := newHeuristicScorer(t)

	batch := []models.Pair{
		{Question: "What is the capital of France?", Answer: "Paris is the capital of France."},
		{Question: "", Answer: "An answer with no question."},
		{Question: "A question with no answer?", Answer: "   "},
	}

	scored, _, err := s.ScoreBatch(context.Background(), batch, batchSource)
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("malformed pairs must not be dropped: got %d results", len(scored))
	}

	if scored[0].Error != "" {
		t.Errorf("valid pair unexpectedly marked: %q", scored[0].Error)
	}
	if scored[1].Error != "missing question" {
		t.Errorf("pair 1 error = %q, want 'missing question'", scored[1].Error)
	}
	if scored[2].Error != "missing answer" {
		t.Errorf("pair 2 error = %q, want 'missing answer'", scored[2].Error)
	}

	for _, sp := range scored[1:] {
		if sp.Overall() != 0 {
			t.Errorf("malformed pair overall = %f, want 0", sp.Overall())
		}
		if sp.Recommendation != models.RecommendationFlag {
			t.Errorf("malformed pair recommendation = %q, want flag", sp.Recommendation)
		}
	}
}

func TestScoreBatch_Cancellation(t *testing.T) {
	s := newHeuristicScorer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scored, _, err := s.ScoreBatch(ctx, testBatch, batchSource)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	for _, sp := range scored {
		if len(sp.Scores) != 6 {
			t.Error("cancelled batch contains a partially scored pair")
		}
	}
}

func TestScoreBatch_Empty(t *testing.T) {
	s := newHeuristicScorer(t)

	scored, stats, err := s.ScoreBatch(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("ScoreBatch failed: %v", err)
	}
	if len(scored) != 0 || stats.Count != 0 {
		t.Error("expected empty results for empty batch")
	}
}

// slowFailingClient blocks until the context dies, then errors.
type slowFailingClient struct{}

func (slowFailingClient) Generate(ctx context.Context, system, user string) (*LLMResponse, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestScoreBatch_JudgedTimeoutFallsBackWithoutFailingBatch(t *testing.T) {
	m := newTestMetrics(t)
	agg := newTestAggregator(t)
	est := NewJudgedEstimator(slowFailingClient{}, m, 10*time.Millisecond)
	s := NewScorer(m, agg, est, 2)

	scored, _, err := s.ScoreBatch(context.Background(), testBatch, batchSource)
	if err != nil {
		t.Fatalf("one slow judge call must not fail the batch: %v", err)
	}
	if len(scored) != len(testBatch) {
		t.Fatalf("expected %d scored pairs, got %d", len(testBatch), len(scored))
	}
	for i, sp := range scored {
		if sp.Method != models.MethodHeuristic {
			t.Errorf("pair %d: method = %q, want heuristic fallback", i, sp.Method)
		}
		if sp.Scores[models.MetricDifficulty] != m.LexicalDifficulty(sp.Answer) {
			t.Errorf("pair %d: difficulty does not match lexical estimate", i)
		}
	}
}

func TestScorePair_SharedSourceFallback(t *testing.T) {
	s := newHeuristicScorer(t)

	withOwnSource := models.Pair{
		Question: "What is the capital of France?",
		Answer:   "Paris is the capital of France.",
		Source:   "Paris is the capital of France.",
	}
	sp := s.ScorePair(context.Background(), withOwnSource, "completely unrelated shared text", nil)
	if got := sp.Scores[models.MetricGrounding]; !almostEqual(got, 0.9) {
		t.Errorf("per-pair source should win: grounding = %f, want 0.9", got)
	}

	withoutSource := models.Pair{
		Question: "What is the capital of France?",
		Answer:   "Paris is the capital of France.",
	}
	sp = s.ScorePair(context.Background(), withoutSource, "Paris is the capital of France.", nil)
	if got := sp.Scores[models.MetricGrounding]; !almostEqual(got, 0.9) {
		t.Errorf("shared source fallback: grounding = %f, want 0.9", got)
	}
}
