package pairs

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/qna-scoring/backend/internal/models"
)

const maxUploadBytes = 16 << 20 // 16MB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Health())
}

func (h *Handler) VerifyConnection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.VerifyConnection(r.Context()))
}

func (h *Handler) UploadPairs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Failed to read upload"})
		return
	}

	parsed, err := ParseUpload(header.Filename, content)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.UploadPairsResponse{
		Filename: header.Filename,
		Count:    len(parsed),
		Pairs:    parsed,
	})
}

func (h *Handler) ScorePairs(w http.ResponseWriter, r *http.Request) {
	var req models.ScorePairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if len(req.Pairs) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No pairs provided"})
		return
	}

	resp, err := h.service.Score(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Scoring failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) FilterPairs(w http.ResponseWriter, r *http.Request) {
	var req models.FilterPairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Criteria.Recommendation != nil && !models.ValidRecommendations[*req.Criteria.Recommendation] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "recommendation must be 'keep', 'review', or 'flag'"})
		return
	}
	for _, t := range req.Criteria.Tiers {
		if !models.ValidTiers[t] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "tier must be 'easy', 'medium', or 'hard'"})
			return
		}
	}

	writeJSON(w, http.StatusOK, h.service.Filter(req))
}

func (h *Handler) ExportPairs(w http.ResponseWriter, r *http.Request) {
	var req models.ExportPairsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if len(req.Pairs) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "No pairs to export"})
		return
	}

	filename := strings.TrimSuffix(strings.TrimSuffix(req.Filename, ".json"), ".csv")
	if filename == "" {
		filename = "scored_pairs"
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+"_scored.csv"))

	if err := WriteCSV(w, req.Pairs); err != nil {
		log.Printf("WARN: CSV export failed mid-stream: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARN: failed to encode response: %v", err)
	}
}
