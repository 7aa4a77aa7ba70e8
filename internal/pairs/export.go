package pairs

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/qna-scoring/backend/internal/models"
)

var exportHeader = []string{
	"Question", "Answer", "Source",
	"Overall", "Clarity", "Grounding", "Diversity", "Difficulty", "Length",
	"Tier", "Recommendation", "Method",
	"Conditioned Score", "Direct Score", "Value Category",
	"Confidence", "Error",
}

// WriteCSV renders scored pairs as a CSV export, one row per pair, scores
// rounded to three decimals.
func WriteCSV(w io.Writer, pairs []models.ScoredPair) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, p := range pairs {
		row := []string{
			p.Question,
			p.Answer,
			p.Source,
			formatScore(p.Overall()),
			formatScore(p.Scores[models.MetricClarity]),
			formatScore(p.Scores[models.MetricGrounding]),
			formatScore(p.Scores[models.MetricDiversity]),
			formatScore(p.Scores[models.MetricDifficulty]),
			formatScore(p.Scores[models.MetricLength]),
			string(p.Tier),
			string(p.Recommendation),
			string(p.Method),
			formatScore(p.ConditionedScore),
			formatScore(p.DirectScore),
			string(p.ValueCategory),
			formatScore(p.Confidence),
			p.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
