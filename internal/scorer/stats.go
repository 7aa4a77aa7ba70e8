package scorer

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/qna-scoring/backend/internal/models"
)

// ComputeStatistics summarizes a fully scored batch. It reads the pairs
// without owning them; callers recompute it whenever the collection changes.
func ComputeStatistics(pairs []models.ScoredPair) models.BatchStatistics {
	stats := models.BatchStatistics{
		Count:                len(pairs),
		TierCounts:           make(map[models.Tier]int),
		RecommendationCounts: make(map[models.Recommendation]int),
		ValueCounts:          make(map[models.ValueCategory]int),
	}
	if len(pairs) == 0 {
		return stats
	}

	overall := make([]float64, len(pairs))
	for i, p := range pairs {
		overall[i] = p.Overall()
		stats.TierCounts[p.Tier]++
		stats.RecommendationCounts[p.Recommendation]++
		if p.ValueCategory != "" {
			stats.ValueCounts[p.ValueCategory]++
		}
	}

	sorted := make([]float64, len(overall))
	copy(sorted, overall)
	sort.Float64s(sorted)

	stats.MeanOverall = stat.Mean(overall, nil)
	stats.MedianOverall = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	stats.MinOverall = sorted[0]
	stats.MaxOverall = sorted[len(sorted)-1]
	if len(overall) > 1 {
		stats.StdevOverall = stat.StdDev(overall, nil)
	}

	stats.Insights = buildInsights(stats)
	return stats
}

// buildInsights mirrors the verdicts a curator would reach scanning the
// distribution by hand.
func buildInsights(stats models.BatchStatistics) []string {
	var insights []string

	keep := stats.RecommendationCounts[models.RecommendationKeep]
	flag := stats.RecommendationCounts[models.RecommendationFlag]
	if keep > flag {
		insights = append(insights, fmt.Sprintf("good dataset quality: %d pairs recommended to keep", keep))
	} else {
		insights = append(insights, fmt.Sprintf("lower quality dataset: only %d pairs recommended to keep", keep))
	}

	if stats.TierCounts[models.TierMedium]*2 > stats.Count {
		insights = append(insights, "balanced difficulty distribution")
	} else {
		insights = append(insights, fmt.Sprintf("unbalanced difficulty: %d easy, %d medium, %d hard",
			stats.TierCounts[models.TierEasy],
			stats.TierCounts[models.TierMedium],
			stats.TierCounts[models.TierHard]))
	}

	if stats.MeanOverall > 0.6 {
		insights = append(insights, fmt.Sprintf("high average score (%.2f): good candidate set for training", stats.MeanOverall))
	} else {
		insights = append(insights, fmt.Sprintf("low average score (%.2f): consider stricter source selection", stats.MeanOverall))
	}

	return insights
}
