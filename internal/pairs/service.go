package pairs

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/qna-scoring/backend/internal/models"
	"github.com/qna-scoring/backend/internal/scorer"
)

// Service wires the scoring engine together from environment configuration
// and adapts it for the HTTP layer.
type Service struct {
	scorer  *scorer.Scorer
	llm     scorer.LLMClient
	model   string
	method  string
	workers int
}

func NewService() (*Service, error) {
	metrics, err := scorer.NewMetrics(scorer.DefaultMetricsConfig())
	if err != nil {
		return nil, err
	}

	agg, err := scorer.NewAggregator(scorer.DefaultWeights())
	if err != nil {
		return nil, err
	}

	llm, model := scorer.NewClientFromEnv()

	workers := scorer.DefaultWorkers
	if v := os.Getenv("SCORE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	timeout := scorer.DefaultJudgeTimeout
	if v := os.Getenv("JUDGE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	method := os.Getenv("DIFFICULTY_ESTIMATOR")
	if method == "" {
		method = "judged"
	}

	var estimator scorer.DifficultyEstimator
	switch method {
	case "heuristic":
		estimator = scorer.NewHeuristicEstimator(metrics)
	default:
		method = "judged"
		judged := scorer.NewJudgedEstimator(llm, metrics, timeout)

		cacheTTL := 30 * time.Minute
		if v := os.Getenv("ESTIMATE_CACHE_TTL_MINUTES"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				cacheTTL = time.Duration(n) * time.Minute
			}
		}
		estimator = scorer.NewCachedEstimator(judged, scorer.NewMemoryCache(cacheTTL))
	}

	log.Printf("Service: estimator=%s model=%s workers=%d", method, model, workers)

	return &Service{
		scorer:  scorer.NewScorer(metrics, agg, estimator, workers),
		llm:     llm,
		model:   model,
		method:  method,
		workers: workers,
	}, nil
}

// Score runs a full batch pass and reports timing alongside the results.
func (s *Service) Score(ctx context.Context, req models.ScorePairsRequest) (*models.ScorePairsResponse, error) {
	start := time.Now()

	scored, stats, err := s.scorer.ScoreBatch(ctx, req.Pairs, req.SourceText)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	perPair := 0.0
	if len(scored) > 0 {
		perPair = float64(elapsed.Milliseconds()) / float64(len(scored))
	}

	return &models.ScorePairsResponse{
		Pairs:      scored,
		Statistics: stats,
		Timing: models.ScoreTiming{
			TotalSeconds:  elapsed.Seconds(),
			PerPairMillis: perPair,
			Workers:       s.workers,
			Method:        s.method,
		},
	}, nil
}

func (s *Service) Filter(req models.FilterPairsRequest) models.FilterPairsResponse {
	filtered := scorer.Filter(req.Pairs, req.Criteria)
	return models.FilterPairsResponse{
		FilteredPairs: filtered,
		Count:         len(filtered),
		OriginalCount: len(req.Pairs),
	}
}

func (s *Service) Health() models.HealthResponse {
	configured := s.model == "mock" || s.model == "claude-cli" || os.Getenv("ANTHROPIC_API_KEY") != ""

	status := "ready"
	if !configured {
		status = "not_configured"
	}

	return models.HealthResponse{
		Configured: configured,
		Model:      s.model,
		Status:     status,
	}
}

// VerifyConnection issues one probe call through the judge client.
func (s *Service) VerifyConnection(ctx context.Context) models.VerifyConnectionResponse {
	resp, err := s.llm.Generate(ctx,
		"You are a helpful assistant.",
		"Say 'OK' if you can read this.")
	if err != nil {
		return models.VerifyConnectionResponse{Connected: false, Error: err.Error()}
	}
	if resp.Content == "" {
		return models.VerifyConnectionResponse{Connected: false, Error: "no response from API"}
	}

	return models.VerifyConnectionResponse{
		Connected: true,
		Model:     s.model,
		Message:   "successfully connected to judge API",
	}
}
