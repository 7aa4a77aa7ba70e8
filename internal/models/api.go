package models

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model"`
	Status     string `json:"status"`
}

type VerifyConnectionResponse struct {
	Connected bool   `json:"connected"`
	Model     string `json:"model,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type UploadPairsResponse struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	Pairs    []Pair `json:"pairs"`
}

type ScorePairsRequest struct {
	Pairs      []Pair `json:"pairs"`
	SourceText string `json:"source_text"`
}

// ScoreTiming reports wall-clock cost of a scoring run.
type ScoreTiming struct {
	TotalSeconds  float64 `json:"total_time_seconds"`
	PerPairMillis float64 `json:"time_per_pair_ms"`
	Workers       int     `json:"workers"`
	Method        string  `json:"method"`
}

type ScorePairsResponse struct {
	Pairs      []ScoredPair    `json:"pairs"`
	Statistics BatchStatistics `json:"statistics"`
	Timing     ScoreTiming     `json:"timing"`
}

type FilterPairsRequest struct {
	Pairs    []ScoredPair   `json:"pairs"`
	Criteria FilterCriteria `json:"criteria"`
}

type FilterPairsResponse struct {
	FilteredPairs []ScoredPair `json:"filtered_pairs"`
	Count         int          `json:"count"`
	OriginalCount int          `json:"original_count"`
}

type ExportPairsRequest struct {
	Pairs    []ScoredPair `json:"pairs"`
	Filename string       `json:"filename"`
}
