// internal/httpapi/interview_handlers.go
package httpapi

import (
	"net/http"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/metrics"
	"interview-portal/internal/interview"
)

type InterviewHandler struct {
	Resolver *interview.Resolver
}

func (h InterviewHandler) PathSession(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, interview.PathScoped{})
}

func (h InterviewHandler) QuerySession(w http.ResponseWriter, r *http.Request) {
	h.session(w, r, interview.QueryScoped{})
}

func (h InterviewHandler) session(w http.ResponseWriter, r *http.Request, s interview.Strategy) {
	d := h.Resolver.Resolve(r.Context(), s, interview.Entry{
		PathJobID: r.PathValue("jobId"),
		Query:     r.URL.Query(),
		ClientID:  ClientIDFrom(r.Context()),
	})

	switch d.Kind {
	case interview.KindRedirect:
		http.Redirect(w, r, d.Redirect, http.StatusFound)
	case interview.KindError:
		WriteJSON(w, apperrors.HTTPStatus(d.Error.Code), d)
	default:
		WriteJSON(w, http.StatusOK, d)
	}
}

func (h InterviewHandler) PathComplete(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r)
}

func (h InterviewHandler) QueryComplete(w http.ResponseWriter, r *http.Request) {
	h.complete(w, r)
}

func (h InterviewHandler) complete(w http.ResponseWriter, r *http.Request) {
	reason := r.URL.Query().Get("reason")
	label := "other"
	if interview.KnownReason(reason) {
		label = interview.Complete(reason).Reason
	}
	metrics.CompletionReasons.WithLabelValues(label).Inc()
	WriteJSON(w, http.StatusOK, interview.Complete(reason))
}
