package common

import (
	"encoding/json"
	"net/http"

	apperrors "instaideas-backend/pkg/errors"
)

// ErrorBody is the uniform failure payload: a one-line message, nothing
// from the underlying provider.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}

// RespondAppError converts an internal error into the uniform
// {statusCode, body:{error}} shape. Validation and not-found messages are
// safe to surface; everything else degrades to a generic message.
func RespondAppError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	message := "internal error"
	if appErr := apperrors.GetAppError(err); appErr != nil {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeNotFound:
			message = appErr.Message
		case apperrors.ErrorTypeExternal:
			message = "upstream service error"
		case apperrors.ErrorTypeStorage:
			message = "storage error"
		}
	}

	RespondError(w, status, message)
}

// ParseJSONBody parses a JSON request body with a size limit
func ParseJSONBody(r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
