package scorer

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/qna-scoring/backend/internal/models"
)

// Estimate is the output of a difficulty estimation pass for one pair.
type Estimate struct {
	Difficulty  float64
	Conditioned float64
	Direct      float64
	Method      models.ScoreMethod
	Value       models.ValueCategory
}

// DifficultyEstimator produces a difficulty score in [0, 1] for a pair.
// Implementations must not fail: the judged variant recovers internally by
// falling back to the lexical estimate, so one bad external call can never
// abort a batch run.
type DifficultyEstimator interface {
	EstimateDifficulty(ctx context.Context, pair models.Pair) Estimate
}

// ── HeuristicEstimator — lexical only ──────────────────────

type HeuristicEstimator struct {
	metrics *Metrics
}

func NewHeuristicEstimator(metrics *Metrics) *HeuristicEstimator {
	return &HeuristicEstimator{metrics: metrics}
}

func (e *HeuristicEstimator) EstimateDifficulty(_ context.Context, pair models.Pair) Estimate {
	return Estimate{
		Difficulty: e.metrics.LexicalDifficulty(pair.Answer),
		Method:     models.MethodHeuristic,
	}
}

// ── JudgedEstimator — IFD via external judge ───────────────

// JudgedEstimator computes Instruction Following Difficulty: the judged
// difficulty of producing the answer given the question, over the judged
// difficulty of producing the answer alone. A ratio at or above 1 means the
// question does not help the model at all, which is treated as maximal
// difficulty (the raw ratio is clipped into [0, 1]).
type JudgedEstimator struct {
	llm      LLMClient
	metrics  *Metrics
	timeout  time.Duration
	fallback *HeuristicEstimator
}

// DefaultJudgeTimeout bounds each judge call so one slow response can never
// stall a batch; past it the heuristic fallback fires.
const DefaultJudgeTimeout = 10 * time.Second

func NewJudgedEstimator(llm LLMClient, metrics *Metrics, timeout time.Duration) *JudgedEstimator {
	if timeout <= 0 {
		timeout = DefaultJudgeTimeout
	}
	return &JudgedEstimator{
		llm:      llm,
		metrics:  metrics,
		timeout:  timeout,
		fallback: NewHeuristicEstimator(metrics),
	}
}

const conditionedSystemPrompt = `You are an instruction difficulty analyzer. Rate how hard it is for a language model to produce the given answer when shown the question. Respond with a single number.`

const directSystemPrompt = `You are a text complexity analyzer. Rate the intrinsic complexity of the given text. Respond with a single number.`

func (e *JudgedEstimator) EstimateDifficulty(ctx context.Context, pair models.Pair) Estimate {
	conditioned, err := e.judge(ctx, conditionedSystemPrompt, buildConditionedPrompt(pair))
	if err != nil {
		return e.fallBack(pair, err)
	}

	direct, err := e.judge(ctx, directSystemPrompt, buildDirectPrompt(pair))
	if err != nil {
		return e.fallBack(pair, err)
	}

	var ifd float64
	if direct > 0 {
		ifd = clamp01(conditioned / direct)
	} else {
		ifd = conditioned
	}

	return Estimate{
		Difficulty:  ifd,
		Conditioned: conditioned,
		Direct:      direct,
		Method:      models.MethodJudged,
		Value:       valueCategoryFor(ifd),
	}
}

func (e *JudgedEstimator) fallBack(pair models.Pair, err error) Estimate {
	log.Printf("WARN: judged difficulty failed (%v) — using lexical estimate", err)
	est := e.fallback.EstimateDifficulty(context.Background(), pair)
	est.Value = valueCategoryFor(est.Difficulty)
	return est
}

// judge issues one rating call and normalizes the 1-10 rating into [0, 1].
func (e *JudgedEstimator) judge(ctx context.Context, system, prompt string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.llm.Generate(callCtx, system, prompt)
	if err != nil {
		return 0, fmt.Errorf("judge call failed: %w", err)
	}

	rating, err := parseRating(resp.Content)
	if err != nil {
		return 0, err
	}
	return float64(rating) / 10.0, nil
}

var ratingPattern = regexp.MustCompile(`\d+`)

// parseRating extracts the first digit sequence in the response and clamps
// it to the 1-10 scale. A response with no digits is a failure, not a
// default rating.
func parseRating(response string) (int, error) {
	match := ratingPattern.FindString(response)
	if match == "" {
		return 0, fmt.Errorf("no numeric rating in judge response %q", truncate(response, 80))
	}

	rating, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("unparseable rating %q: %w", match, err)
	}

	if rating < 1 {
		rating = 1
	}
	if rating > 10 {
		rating = 10
	}
	return rating, nil
}

func valueCategoryFor(ifd float64) models.ValueCategory {
	if ifd > 0.7 {
		return models.ValueHigh
	}
	if ifd > 0.4 {
		return models.ValueMedium
	}
	return models.ValueLow
}

func buildConditionedPrompt(pair models.Pair) string {
	var sb strings.Builder
	sb.WriteString("Analyze the difficulty of generating this answer given the question:\n\n")
	sb.WriteString("Question: ")
	sb.WriteString(pair.Question)
	sb.WriteString("\nAnswer: ")
	sb.WriteString(pair.Answer)
	sb.WriteString("\n\nRate the difficulty on a scale 1-10:\n")
	sb.WriteString("1 = Very easy to generate (model can easily follow this instruction)\n")
	sb.WriteString("10 = Very hard to generate (model struggles to follow this instruction)\n\n")
	sb.WriteString("Provide only the number 1-10.")
	return sb.String()
}

func buildDirectPrompt(pair models.Pair) string {
	var sb strings.Builder
	sb.WriteString("Analyze how difficult it is to generate this text independently:\n\n")
	sb.WriteString("Text: ")
	sb.WriteString(pair.Answer)
	sb.WriteString("\n\nRate the intrinsic complexity on a scale 1-10:\n")
	sb.WriteString("1 = Very simple text\n")
	sb.WriteString("10 = Very complex text\n\n")
	sb.WriteString("Provide only the number 1-10.")
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
