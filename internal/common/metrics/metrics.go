// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "status"},
	)

	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_wizard_transitions_total",
			Help: "Wizard step transitions by originating step and outcome",
		},
		[]string{"from_step", "outcome"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Application submissions by payload shape and result",
		},
		[]string{"shape", "result"},
	)

	SessionResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_session_resolutions_total",
			Help: "Interview session resolutions by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	CompletionReasons = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_interview_completions_total",
			Help: "Interview completion screens served by reason",
		},
		[]string{"reason"},
	)

	JobCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_job_cache_lookups_total",
			Help: "Job cache lookups by result",
		},
		[]string{"result"},
	)

	ToastsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_toasts_active",
			Help: "Number of toasts currently on screen across all clients",
		},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
