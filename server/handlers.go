package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"retunefm/config"
	"retunefm/core/audio"
	"retunefm/logger"
	"retunefm/repository"
)

// APIHandler holds dependencies for HTTP handlers.
type APIHandler struct {
	jobRepo  repository.RemixJobRepository
	renderer audio.Renderer
	cfg      *config.Config
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(jobRepo repository.RemixJobRepository, renderer audio.Renderer, cfg *config.Config) *APIHandler {
	return &APIHandler{jobRepo: jobRepo, renderer: renderer, cfg: cfg}
}

var nonAlphaNumeric = regexp.MustCompile(`[^a-zA-Z0-9_\-\.]`)
var multipleSpaces = regexp.MustCompile(`\s+`)

// sanitizeFilename makes an uploaded filename safe for local scratch
// storage. The original name is preserved separately for metadata
// extraction and the job record.
func sanitizeFilename(name string) string {
	base := strings.TrimSpace(name)
	base = multipleSpaces.ReplaceAllString(base, "_")
	base = nonAlphaNumeric.ReplaceAllString(base, "")

	// Prevent overly long filenames
	maxLength := 150
	if len(base) > maxLength {
		base = base[:maxLength]
	}
	if base == "" {
		base = "upload"
	}
	return base
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
