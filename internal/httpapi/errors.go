// internal/httpapi/errors.go
package httpapi

import (
	"encoding/json"
	"net/http"

	apperrors "interview-portal/internal/common/errors"
)

type APIError struct {
	Error struct {
		Code      string      `json:"code"`
		Message   string      `json:"message"`
		Details   string      `json:"details,omitempty"`
		Fields    interface{} `json:"fields,omitempty"`
		RequestID string      `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteStandardError maps any error onto the API error body. Errors that
// are not StandardErrors become a generic 500 with no internal detail.
func WriteStandardError(w http.ResponseWriter, r *http.Request, err error) {
	std, ok := apperrors.As(err)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, string(apperrors.ErrCodeInternal), "internal server error")
		return
	}

	var e APIError
	e.Error.Code = string(std.Code)
	e.Error.Message = std.Message
	e.Error.Details = std.Details
	e.Error.Fields = std.Metadata[apperrors.MetadataFields]
	e.Error.RequestID = RequestIDFrom(r.Context())
	if std.Code == apperrors.ErrCodeRateLimited {
		w.Header().Set("Retry-After", "1")
	}
	WriteJSON(w, apperrors.HTTPStatus(std.Code), e)
}

// writeValidationError reports step field errors with 422.
func writeValidationError(w http.ResponseWriter, r *http.Request, fields interface{}) {
	var e APIError
	e.Error.Code = string(apperrors.ErrCodeValidationFailed)
	e.Error.Message = "Validation failed"
	e.Error.Fields = fields
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, http.StatusUnprocessableEntity, e)
}
