// internal/httpapi/deps.go
package httpapi

import (
	"context"

	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/observability"
	"interview-portal/internal/events"
	"interview-portal/internal/interview"
	"interview-portal/internal/jobs"
	"interview-portal/internal/models"
	"interview-portal/internal/submission"
	"interview-portal/internal/toast"
	"interview-portal/internal/wizard"
)

// ProfileStore is satisfied by *profile.Provider.
type ProfileStore interface {
	Get(ctx context.Context, clientID string) (models.Profile, error)
	Save(ctx context.Context, clientID string, u models.User) (models.Profile, error)
	Clear(ctx context.Context, clientID string) error
}

// JobSearcher is satisfied by *jobs.Search.
type JobSearcher interface {
	Find(ctx context.Context, q jobs.SearchQuery) (*models.JobSearchResult, error)
}

// ApplicationSubmitter is satisfied by *submission.Submitter.
type ApplicationSubmitter interface {
	Submit(ctx context.Context, state wizard.FormState, shape submission.Shape, meta submission.Meta) (*submission.Receipt, error)
}

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Deps struct {
	Log logger.Logger
	Obs *observability.Observability

	Hub    *events.Hub
	Toasts *toast.Registry

	Profiles  ProfileStore
	Resolver  *interview.Resolver
	Jobs      jobs.Lookup
	Search    JobSearcher // nil when search is not configured
	Submitter ApplicationSubmitter

	DefaultShape submission.Shape

	ServiceName string
	Version     string
	Ready       []ReadinessCheck
}
