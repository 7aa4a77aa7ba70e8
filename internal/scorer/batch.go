package scorer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/qna-scoring/backend/internal/models"
)

// DefaultWorkers caps concurrent judge calls; the external service is
// rate-limited, so batch fan-out must stay bounded.
const DefaultWorkers = 4

// Scorer is the scoring engine: lexical metrics, diversity, difficulty
// estimation, and aggregation over single pairs and batches.
type Scorer struct {
	metrics   *Metrics
	agg       *Aggregator
	estimator DifficultyEstimator
	workers   int
}

func NewScorer(metrics *Metrics, agg *Aggregator, estimator DifficultyEstimator, workers int) *Scorer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Scorer{
		metrics:   metrics,
		agg:       agg,
		estimator: estimator,
		workers:   workers,
	}
}

// ScorePair evaluates one pair. The per-pair source wins over the shared
// sourceText; otherQuestions is the batch comparison set for diversity and
// must not contain the pair's own question.
func (s *Scorer) ScorePair(ctx context.Context, pair models.Pair, sourceText string, otherQuestions []string) models.ScoredPair {
	if reason := validatePair(pair); reason != "" {
		return penalizedPair(pair, reason)
	}

	source := pair.Source
	if source == "" {
		source = sourceText
	}

	est := s.estimator.EstimateDifficulty(ctx, pair)

	m := MetricSet{
		Clarity:    s.metrics.Clarity(pair.Question),
		Grounding:  s.metrics.Grounding(pair.Answer, source),
		Diversity:  Diversity(pair.Question, otherQuestions),
		Difficulty: est.Difficulty,
		Length:     s.metrics.LengthFitness(pair.Answer),
	}

	return s.agg.Aggregate(pair, m, est)
}

// ScoreBatch evaluates every pair against the full batch. Diversity for
// pair i is computed over a read-only snapshot of all questions except its
// own, and statistics are derived only once every pair has finalized.
//
// On cancellation the returned slice holds only the pairs that finished
// scoring — never a partially scored pair — and statistics are left empty.
func (s *Scorer) ScoreBatch(ctx context.Context, pairs []models.Pair, sourceText string) ([]models.ScoredPair, models.BatchStatistics, error) {
	if len(pairs) == 0 {
		return []models.ScoredPair{}, models.BatchStatistics{}, nil
	}

	// Snapshot taken before scoring begins; read-only from here on, so
	// concurrent diversity comparisons need no locking.
	questions := make([]string, len(pairs))
	for i, p := range pairs {
		questions[i] = p.Question
	}

	results := make([]models.ScoredPair, len(pairs))
	done := make([]bool, len(pairs))

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, models.BatchStatistics{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range pairs {
		if ctx.Err() != nil {
			break
		}

		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}

			sp := s.ScorePair(ctx, pairs[i], sourceText, othersOf(questions, i))

			// A cancellation mid-pair may have degraded the judge call to
			// the heuristic path; drop the result rather than record it.
			if ctx.Err() != nil {
				return
			}
			results[i] = sp
			done[i] = true
		}

		if submitErr := pool.Submit(task); submitErr != nil {
			log.Printf("WARN: worker pool submit failed: %v — scoring inline", submitErr)
			task()
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return collectDone(results, done), models.BatchStatistics{}, ctx.Err()
	}

	return results, ComputeStatistics(results), nil
}

// othersOf returns the batch question list without index i.
func othersOf(questions []string, i int) []string {
	others := make([]string, 0, len(questions)-1)
	others = append(others, questions[:i]...)
	others = append(others, questions[i+1:]...)
	return others
}

func collectDone(results []models.ScoredPair, done []bool) []models.ScoredPair {
	completed := make([]models.ScoredPair, 0, len(results))
	for i, ok := range done {
		if ok {
			completed = append(completed, results[i])
		}
	}
	return completed
}

func validatePair(pair models.Pair) string {
	switch {
	case strings.TrimSpace(pair.Question) == "":
		return "missing question"
	case strings.TrimSpace(pair.Answer) == "":
		return "missing answer"
	}
	return ""
}

// penalizedPair records a malformed input as a maximally penalized result
// instead of dropping it: the batch output keeps one entry per input pair,
// and the reason travels with it.
func penalizedPair(pair models.Pair, reason string) models.ScoredPair {
	return models.ScoredPair{
		Pair: pair,
		Scores: map[string]float64{
			models.MetricClarity:    0,
			models.MetricGrounding:  0,
			models.MetricDiversity:  0,
			models.MetricDifficulty: 0,
			models.MetricLength:     0,
			models.MetricOverall:    0,
		},
		Tier:            models.TierMedium,
		Recommendation:  models.RecommendationFlag,
		Method:          models.MethodHeuristic,
		Confidence:      0,
		ConfidenceLevel: models.ConfidenceLow,
		Error:           reason,
	}
}
