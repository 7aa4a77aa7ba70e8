package scorer

import (
	"sort"

	"github.com/qna-scoring/backend/internal/models"
)

// Filter returns the scored pairs matching the criteria, in their original
// relative order. The input is never mutated. A pair is dropped when its
// overall score is below the minimum (or above a set maximum), its tier is
// not in the allowed set, or an explicit recommendation or value-category
// filter does not match.
func Filter(pairs []models.ScoredPair, criteria models.FilterCriteria) []models.ScoredPair {
	allowedTiers := make(map[models.Tier]bool, len(criteria.Tiers))
	for _, t := range criteria.Tiers {
		allowedTiers[t] = true
	}

	filtered := make([]models.ScoredPair, 0, len(pairs))
	for _, p := range pairs {
		overall := p.Overall()
		if overall < criteria.MinOverall {
			continue
		}
		if criteria.MaxOverall > 0 && overall > criteria.MaxOverall {
			continue
		}
		if len(allowedTiers) > 0 && !allowedTiers[p.Tier] {
			continue
		}
		if criteria.Recommendation != nil && p.Recommendation != *criteria.Recommendation {
			continue
		}
		if criteria.ValueCategory != nil && p.ValueCategory != *criteria.ValueCategory {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// RankByOverall returns a copy sorted by overall score descending. Ties keep
// their original order so repeated ranking is stable.
func RankByOverall(pairs []models.ScoredPair) []models.ScoredPair {
	ranked := make([]models.ScoredPair, len(pairs))
	copy(ranked, pairs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Overall() > ranked[j].Overall()
	})
	return ranked
}
