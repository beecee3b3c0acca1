// internal/httpapi/profile_handlers.go
package httpapi

import (
	"net/http"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/models"
)

type ProfileHandler struct {
	Profiles ProfileStore
	Log      logger.Logger
}

// Get always answers with a profile; a store outage degrades to guest.
func (h ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	prof, err := h.Profiles.Get(r.Context(), ClientIDFrom(r.Context()))
	if err != nil {
		logger.FromContext(r.Context(), h.Log).Warn("Serving guest profile after store failure", map[string]interface{}{
			"error": err,
		})
	}
	WriteJSON(w, http.StatusOK, prof)
}

func (h ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(r, &u); err != nil {
		WriteStandardError(w, r, err)
		return
	}
	prof, err := h.Profiles.Save(r.Context(), ClientIDFrom(r.Context()), u)
	if err != nil {
		logger.FromContext(r.Context(), h.Log).Error("Failed to store user", map[string]interface{}{"error": err})
		WriteStandardError(w, r, apperrors.NewExternalServiceError("redis", err))
		return
	}
	WriteJSON(w, http.StatusOK, prof)
}

func (h ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Profiles.Clear(r.Context(), ClientIDFrom(r.Context())); err != nil {
		WriteStandardError(w, r, apperrors.NewExternalServiceError("redis", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
