package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jrsteele09/homecare-session/token"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"
	maxRequestBody  = 1 << 20
)

// HealthHandler reports liveness
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "app": s.config.GetAppName()})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeJSONError writes the API's {"detail", "code"} error body
func writeJSONError(w http.ResponseWriter, statusCode int, detail, code string) {
	writeJSON(w, statusCode, token.ErrorResponse{Detail: detail, Code: code})
}

// writeFieldErrors writes a 400 with per-field messages
func writeFieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

// decodeJSON reads a JSON request body into v, writing a 400 and returning false on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		detail := "JSON parse error - " + err.Error()
		if errors.Is(err, io.EOF) {
			detail = "Request body is empty."
		}
		writeJSONError(w, http.StatusBadRequest, detail, "parse_error")
		return false
	}
	return true
}
