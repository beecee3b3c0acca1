// internal/httpapi/applications_handlers.go
package httpapi

import (
	"net/http"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/submission"
	"interview-portal/internal/toast"
	"interview-portal/internal/wizard"
)

type ApplicationsHandler struct {
	Submitter    ApplicationSubmitter
	Toasts       *toast.Registry
	DefaultShape submission.Shape
	Log          logger.Logger
}

type applicationRequest struct {
	wizard.FormState
	JobID string `json:"jobId"`
}

func (h ApplicationsHandler) shape(r *http.Request) (submission.Shape, error) {
	def := h.DefaultShape
	if def == "" {
		def = submission.ShapeNested
	}
	return submission.ParseShape(r.URL.Query().Get("shape"), def)
}

func (h ApplicationsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	shape, err := h.shape(r)
	if err != nil {
		WriteStandardError(w, r, err)
		return
	}
	var req applicationRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteStandardError(w, r, err)
		return
	}

	clientID := ClientIDFrom(r.Context())
	receipt, err := h.Submitter.Submit(r.Context(), req.FormState, shape, submission.Meta{
		JobID:     req.JobID,
		ClientID:  clientID,
		RequestID: RequestIDFrom(r.Context()),
	})
	if err != nil {
		// Upstream failures surface as toasts; local validation never does.
		if std, ok := apperrors.As(err); ok && h.Toasts != nil {
			switch std.Code {
			case apperrors.ErrCodeSubmissionRejected, apperrors.ErrCodeUpstreamUnavailable:
				h.Toasts.For(clientID).Error(std.Message)
			}
		}
		WriteStandardError(w, r, err)
		return
	}

	if h.Toasts != nil {
		h.Toasts.For(clientID).Success("Application submitted")
	}
	logger.FromContext(r.Context(), h.Log).Info("Application accepted", map[string]interface{}{
		"application_id": receipt.ApplicationID,
		"shape":          string(receipt.Shape),
	})
	WriteJSON(w, http.StatusCreated, receipt)
}

func (h ApplicationsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	shape, err := h.shape(r)
	if err != nil {
		WriteStandardError(w, r, err)
		return
	}
	var req applicationRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteStandardError(w, r, err)
		return
	}

	payload, err := submission.Preview(req.FormState, shape, req.JobID)
	if err != nil {
		WriteStandardError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, payload)
}
