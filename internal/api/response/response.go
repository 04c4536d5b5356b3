package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Response is the uniform success envelope returned by every endpoint.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

// JSON writes the success envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// Error resolves err against the apperr taxonomy and writes the error
// envelope. Anything outside the taxonomy becomes a 500.
func Error(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("Something went wrong", err)
	}
	if appErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed with server error")
	}
	Fail(w, appErr.Status, appErr.Message, appErr.Details...)
}

// Fail writes the error envelope directly.
func Fail(w http.ResponseWriter, status int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     details,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to encode error response")
	}
}
