package httpapi

import (
	"encoding/json"
	"net/http"
)

// fieldIssue is one entry of a validation failure report.
type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondGenericError writes a non-specific error body. No internal error
// text ever reaches the client through this path.
func respondGenericError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func respondValidationError(w http.ResponseWriter, issues []fieldIssue) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"message": "Validation error",
		"issues":  issues,
	})
}
