package pairs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qna-scoring/backend/internal/models"
)

// columnAliases maps upload column headers to canonical field names. The
// original scoring corpus was Bahasa Melayu, so the Malay headers are
// first-class.
var columnAliases = map[string]string{
	"question": "question",
	"answer":   "answer",
	"source":   "source",
	"soalan":   "question",
	"jawapan":  "answer",
	"sumber":   "source",
}

type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse upload: %s", e.Reason)
}

// ParseUpload extracts Q&A pairs from an uploaded JSON or CSV file. Rows
// missing a question or answer are dropped here; the caller gets an error
// only when nothing usable remains.
func ParseUpload(filename string, content []byte) ([]models.Pair, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return parseJSON(content)
	case ".csv":
		return parseCSV(content)
	default:
		return nil, &ParseError{Reason: "only JSON or CSV files are supported"}
	}
}

func parseJSON(content []byte) ([]models.Pair, error) {
	var raw []models.Pair
	if err := json.Unmarshal(content, &raw); err != nil {
		// A single object is accepted as a one-pair upload.
		var single models.Pair
		if err := json.Unmarshal(content, &single); err != nil {
			return nil, &ParseError{Reason: "invalid JSON format"}
		}
		raw = []models.Pair{single}
	}

	return validatePairs(raw)
}

func parseCSV(content []byte) ([]models.Pair, error) {
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: "invalid CSV format"}
	}
	if len(records) < 2 {
		return nil, &ParseError{Reason: "CSV has no data rows"}
	}

	// Resolve header columns through the alias table.
	fieldIndex := make(map[string]int)
	for i, header := range records[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		if canonical, ok := columnAliases[key]; ok {
			fieldIndex[canonical] = i
		}
	}
	if _, ok := fieldIndex["question"]; !ok {
		return nil, &ParseError{Reason: "CSV is missing a question column"}
	}
	if _, ok := fieldIndex["answer"]; !ok {
		return nil, &ParseError{Reason: "CSV is missing an answer column"}
	}

	raw := make([]models.Pair, 0, len(records)-1)
	for _, row := range records[1:] {
		raw = append(raw, models.Pair{
			Question: cell(row, fieldIndex, "question"),
			Answer:   cell(row, fieldIndex, "answer"),
			Source:   cell(row, fieldIndex, "source"),
		})
	}

	return validatePairs(raw)
}

func cell(row []string, fieldIndex map[string]int, field string) string {
	idx, ok := fieldIndex[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func validatePairs(raw []models.Pair) ([]models.Pair, error) {
	validated := make([]models.Pair, 0, len(raw))
	for _, p := range raw {
		question := strings.TrimSpace(p.Question)
		answer := strings.TrimSpace(p.Answer)
		if question == "" || answer == "" {
			continue
		}
		validated = append(validated, models.Pair{
			Question: question,
			Answer:   answer,
			Source:   strings.TrimSpace(p.Source),
		})
	}

	if len(validated) == 0 {
		return nil, &ParseError{Reason: "no valid Q&A pairs found in file"}
	}
	return validated, nil
}
