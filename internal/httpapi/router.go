// internal/httpapi/router.go
package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interview-portal/internal/common/config"
)

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Wizard
	wh := WizardHandler{Log: d.Log}
	mux.HandleFunc("/api/wizard/steps", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: wh.Steps,
	}))
	mux.HandleFunc("/api/wizard/progress", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: wh.Progress,
	}))
	mux.HandleFunc("/api/wizard/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Validate,
	}))
	mux.HandleFunc("/api/wizard/next", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Next,
	}))
	mux.HandleFunc("/api/wizard/back", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: wh.Back,
	}))

	// Applications
	ah := ApplicationsHandler{Submitter: d.Submitter, Toasts: d.Toasts, DefaultShape: d.DefaultShape, Log: d.Log}
	mux.HandleFunc("/api/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Submit,
	}))
	mux.HandleFunc("/api/applications/preview", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Preview,
	}))

	// Interview session
	ih := InterviewHandler{Resolver: d.Resolver}
	mux.HandleFunc("/interview/{jobId}/session", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.PathSession,
	}))
	mux.HandleFunc("/interview/job/session", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.QuerySession,
	}))
	mux.HandleFunc("/interview/{jobId}/complete", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.PathComplete,
	}))
	mux.HandleFunc("/interview/job/complete", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ih.QueryComplete,
	}))

	// Profile
	ph := ProfileHandler{Profiles: d.Profiles, Log: d.Log}
	mux.HandleFunc("/api/me", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    ph.Get,
		http.MethodPut:    ph.Put,
		http.MethodDelete: ph.Delete,
	}))

	// Jobs
	jh := JobsHandler{Jobs: d.Jobs, Search: d.Search, Log: d.Log}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/{id}", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Get,
	}))

	// Toasts and SSE
	th := ToastHandler{Toasts: d.Toasts, Hub: d.Hub}
	mux.HandleFunc("/api/toasts", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  th.List,
		http.MethodPost: th.Create,
	}))
	mux.HandleFunc("/api/toasts/{id}", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: th.Dismiss,
	}))
	mux.HandleFunc("/api/toasts/stream", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: th.ServeSSE,
	}))

	// Ops
	hh := HealthHandler{Service: d.ServiceName, Version: d.Version, Checks: d.Ready}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))
	mux.HandleFunc("/ready", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Ready,
	}))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// NewHandler wraps the mux in the middleware stack configured by srv.
func NewHandler(d Deps, srv config.ServerConfig, secureCookies bool) http.Handler {
	return Chain(NewMux(d), middlewareStack(d, srv, secureCookies)...)
}

// middlewareStack is outermost first. Recover sits inside AccessLog so a
// panicking request is still logged and counted as a 500.
func middlewareStack(d Deps, srv config.ServerConfig, secureCookies bool) []Middleware {
	mw := []Middleware{
		RequestID,
		ClientID(srv.ClientCookie, secureCookies),
		WithLogger(d.Log),
		AccessLog(d.Log, d.Obs),
		Recover(d.Log),
		Cors(srv.AllowedOrigins),
	}
	if srv.RateLimit.Enabled {
		mw = append(mw, RateLimit(srv.RateLimit.RequestsPerSecond, srv.RateLimit.Burst))
	}
	return mw
}
