package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/config"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeFieldError(w http.ResponseWriter, status int, field, message string) {
	writeJSON(w, status, errorResponse{Error: message, Field: field})
}

// InfoHandler serves the static pages: health and about.
type InfoHandler struct {
	app    *config.AppConfig
	logger *zap.Logger
}

func NewInfoHandler(app *config.AppConfig, logger *zap.Logger) *InfoHandler {
	return &InfoHandler{app: app, logger: logger}
}

func (h *InfoHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *InfoHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":          h.app.Name,
		"description":   h.app.Description,
		"contact_email": h.app.ContactEmail,
		"whatsapp":      h.app.Whatsapp,
	})
}
