package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rahatk-dev/pathagar/internal/models"
	"github.com/rahatk-dev/pathagar/internal/services"
)

type QueryHandler struct {
	answers *services.AnswerService
}

func NewQueryHandler(answers *services.AnswerService) *QueryHandler {
	return &QueryHandler{answers: answers}
}

type searchRequest struct {
	Query      string `json:"query"`
	ClassLevel int    `json:"class_level"`
	Subject    string `json:"subject,omitempty"`
	ChapterID  string `json:"chapter_id,omitempty"`
	TopK       int    `json:"top_k,omitempty"`
}

// Search returns ranked chunks for a query under the given scope filter.
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	matches, err := h.answers.Search(r.Context(), services.SearchRequest{
		Query:      req.Query,
		ClassLevel: req.ClassLevel,
		Subject:    req.Subject,
		ChapterID:  req.ChapterID,
		TopK:       req.TopK,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"query":   req.Query,
		"count":   len(matches),
		"results": matches,
	})
}

type askRequest struct {
	Question   string `json:"question"`
	ClassLevel int    `json:"class_level"`
	Subject    string `json:"subject,omitempty"`
	ChapterID  string `json:"chapter_id,omitempty"`
}

// Ask composes a grounded answer from retrieved chunks.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.ValidationError{Field: "body", Reason: "invalid JSON"})
		return
	}

	ans, err := h.answers.Answer(r.Context(), services.SearchRequest{
		Query:      req.Question,
		ClassLevel: req.ClassLevel,
		Subject:    req.Subject,
		ChapterID:  req.ChapterID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}
