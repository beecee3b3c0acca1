// internal/httpapi/jobs_handlers.go
package httpapi

import (
	"net/http"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/jobs"
)

type JobsHandler struct {
	Jobs   jobs.Lookup
	Search JobSearcher
	Log    logger.Logger
}

// Get answers with the lookup envelope so clients branch on "error".
func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, err := h.Jobs.GetByID(r.Context(), id)
	if err != nil {
		logger.FromContext(r.Context(), h.Log).Error("Job lookup failed", map[string]interface{}{
			"job_id": id,
			"error":  err,
		})
		WriteStandardError(w, r, apperrors.NewJobLookupFailedError(id, err))
		return
	}
	if !res.Found() {
		WriteJSON(w, http.StatusNotFound, res)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Search == nil {
		WriteError(w, r, http.StatusServiceUnavailable, "SEARCH_UNAVAILABLE", "job search is not configured")
		return
	}

	q := r.URL.Query()
	res, err := h.Search.Find(r.Context(), jobs.SearchQuery{
		Keywords:       q.Get("q"),
		Location:       q.Get("location"),
		EmploymentType: q.Get("type"),
		From:           queryInt(r, "from", 0),
		Size:           queryInt(r, "limit", 0),
	})
	if err != nil {
		logger.FromContext(r.Context(), h.Log).Error("Job search failed", map[string]interface{}{"error": err})
		WriteStandardError(w, r, apperrors.NewSearchQueryFailedError("jobs", err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}
