// internal/httpapi/health_handlers.go
package httpapi

import (
	"context"
	"net/http"
	"time"
)

type HealthHandler struct {
	Service string
	Version string
	Checks  []ReadinessCheck
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": h.Service,
		"version": h.Version,
	})
}

// Ready probes every dependency and answers 503 if any fails.
func (h HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.Checks))
	for _, c := range h.Checks {
		if err := c.Check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[c.Name] = err.Error()
			continue
		}
		results[c.Name] = "ok"
	}

	WriteJSON(w, status, map[string]any{
		"ready":  status == http.StatusOK,
		"checks": results,
	})
}
