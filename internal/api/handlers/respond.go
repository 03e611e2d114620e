package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/rahatk-dev/pathagar/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps the pipeline error taxonomy onto HTTP statuses. The body
// always carries success=false plus a human message.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr    *models.ValidationError
		confirm *models.ConfirmationRequiredError
		xerr    *models.ExtractionError
	)
	switch {
	case errors.As(err, &confirm):
		writeJSON(w, http.StatusConflict, map[string]any{
			"success":        false,
			"error":          "confirmation_required",
			"message":        "Chapter content changed; re-upload with force=true to replace",
			"existing_hash":  confirm.ExistingHash,
			"new_hash":       confirm.NewHash,
			"requires_force": true,
		})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "validation_failed",
			"message": verr.Error(),
		})
	case errors.As(err, &xerr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error":   "extraction_failed",
			"message": xerr.Error(),
		})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
