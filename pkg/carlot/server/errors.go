package server

import (
	"encoding/json"
	"net/http"

	"github.com/nekruzvatanshoev/carlot/pkg/carlot/apperr"
	"github.com/nekruzvatanshoev/carlot/pkg/carlot/logging"
)

type errorResponse struct {
	Error   apperr.Kind `json:"error"`
	Message string      `json:"message"`
}

// reportError is the single place failed requests are answered. Errors that
// are not *apperr.Error are reported as internal errors and only their cause
// is logged.
func (h *httpServer) reportError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperr.From(err)
	logger := logging.WithContext(r.Context(), h.log)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("request failed", "kind", appErr.Kind, "error", err)
	} else {
		logger.Debug("request rejected", "kind", appErr.Kind, "message", appErr.Message)
	}
	writeJSON(w, appErr.StatusCode(), errorResponse{Error: appErr.Kind, Message: appErr.Message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
