package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/pipeline"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError carries the log fields describing a rejected input.
type ValidationError struct {
	Message string
	Fields  []logger.Field
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}, log logger.Logger) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn("Failed to decode request body", logger.ErrorField("error", err))
		return fmt.Errorf("invalid request payload")
	}
	return nil
}

// respondWithLedgerError maps a normalized ledger failure to the console
// response. Client errors keep their status, everything else is a 502.
func respondWithLedgerError(w http.ResponseWriter, err error) bool {
	var apiErr *pipeline.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := http.StatusBadGateway
	switch {
	case apiErr.Kind == pipeline.KindTransport:
		code = http.StatusServiceUnavailable
	case apiErr.Status >= 400 && apiErr.Status < 500:
		code = apiErr.Status
	}
	respondWithError(w, code, apiErr.Message)
	return true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal Server Error"}`)) // Fallback response
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
