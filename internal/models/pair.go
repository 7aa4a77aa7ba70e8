package models

// Pair is a question/answer unit under evaluation. Scoring never mutates a
// Pair; it produces a new ScoredPair.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Source   string `json:"source,omitempty"`
}

type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

var ValidTiers = map[Tier]bool{
	TierEasy:   true,
	TierMedium: true,
	TierHard:   true,
}

type Recommendation string

const (
	RecommendationKeep   Recommendation = "keep"
	RecommendationReview Recommendation = "review"
	RecommendationFlag   Recommendation = "flag"
)

var ValidRecommendations = map[Recommendation]bool{
	RecommendationKeep:   true,
	RecommendationReview: true,
	RecommendationFlag:   true,
}

type ValueCategory string

const (
	ValueHigh   ValueCategory = "high"
	ValueMedium ValueCategory = "medium"
	ValueLow    ValueCategory = "low"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ScoreMethod records how the difficulty score was produced, so consumers
// can distinguish judged from estimated difficulty.
type ScoreMethod string

const (
	MethodJudged    ScoreMethod = "judged"
	MethodHeuristic ScoreMethod = "heuristic"
)

// Metric names used as keys in ScoredPair.Scores.
const (
	MetricClarity    = "clarity"
	MetricGrounding  = "grounding"
	MetricDiversity  = "diversity"
	MetricDifficulty = "difficulty"
	MetricLength     = "length"
	MetricOverall    = "overall"
)

// BaseMetrics lists the five per-pair metrics that feed the overall score,
// in aggregation-weight order.
var BaseMetrics = []string{
	MetricClarity, MetricGrounding, MetricDiversity, MetricDifficulty, MetricLength,
}

// ScoredPair is a Pair plus its evaluation. Created once per scoring pass and
// immutable afterwards; re-scoring produces a new ScoredPair because diversity
// depends on the surrounding batch.
type ScoredPair struct {
	Pair

	Scores         map[string]float64 `json:"scores"`
	Tier           Tier               `json:"tier"`
	Recommendation Recommendation     `json:"recommendation"`
	Method         ScoreMethod        `json:"method"`

	// Populated on the judged (IFD) path only.
	ConditionedScore float64       `json:"conditioned_score,omitempty"`
	DirectScore      float64       `json:"direct_score,omitempty"`
	ValueCategory    ValueCategory `json:"value_category,omitempty"`

	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`

	// Error records why a malformed input pair was scored as maximally
	// penalized instead of evaluated normally.
	Error string `json:"error,omitempty"`
}

// Overall returns the aggregate score, 0 if the pair has no scores.
func (sp *ScoredPair) Overall() float64 {
	return sp.Scores[MetricOverall]
}

// BatchStatistics is a derived summary over a set of scored pairs. It is
// recomputed fresh from the current collection and never persisted.
type BatchStatistics struct {
	Count         int     `json:"count"`
	MeanOverall   float64 `json:"mean_overall"`
	MedianOverall float64 `json:"median_overall"`
	StdevOverall  float64 `json:"stdev_overall"`
	MinOverall    float64 `json:"min_overall"`
	MaxOverall    float64 `json:"max_overall"`

	TierCounts           map[Tier]int           `json:"tier_counts"`
	RecommendationCounts map[Recommendation]int `json:"recommendation_counts"`
	ValueCounts          map[ValueCategory]int  `json:"value_counts"`

	Insights []string `json:"insights"`
}

// FilterCriteria selects a subset of scored pairs. Zero values disable the
// corresponding check except Tiers, where an empty list means all tiers.
type FilterCriteria struct {
	MinOverall     float64         `json:"min_overall"`
	MaxOverall     float64         `json:"max_overall,omitempty"`
	Tiers          []Tier          `json:"tiers,omitempty"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	ValueCategory  *ValueCategory  `json:"value_category,omitempty"`
}
