// internal/interview/resolver.go
package interview

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/metrics"
	"interview-portal/internal/jobs"
	"interview-portal/internal/models"
)

// MessageFetchFailed replaces unexpected lookup failures.
const MessageFetchFailed = "Failed to fetch job details"

type Kind string

const (
	KindProceed  Kind = "proceed"
	KindRedirect Kind = "redirect"
	KindError    Kind = "error"
)

// SessionError is the error panel contents with its recovery action.
type SessionError struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Action  Action              `json:"action"`
}

// Decision is the settled outcome of resolving one request.
type Decision struct {
	Kind     Kind                     `json:"kind"`
	Redirect string                   `json:"redirect,omitempty"`
	Error    *SessionError            `json:"error,omitempty"`
	Session  *models.InterviewSession `json:"session,omitempty"`
	// CompleteURL ends in "reason=" for the chat to append its reason.
	CompleteURL string `json:"completeUrl,omitempty"`
}

// ProfileReader is satisfied by *profile.Provider.
type ProfileReader interface {
	Get(ctx context.Context, clientID string) (models.Profile, error)
}

type Resolver struct {
	jobs    jobs.Lookup
	profile ProfileReader
	log     logger.Logger
}

func NewResolver(lookup jobs.Lookup, profile ProfileReader, log logger.Logger) *Resolver {
	return &Resolver{jobs: lookup, profile: profile, log: log}
}

// Resolve runs the shared flow for either entry protocol. Redirects and the
// missing job id case return before any lookup is made.
func (r *Resolver) Resolve(ctx context.Context, s Strategy, e Entry) Decision {
	d := r.resolve(ctx, s, e)
	metrics.SessionResolutions.WithLabelValues(s.Name(), string(d.Kind)).Inc()
	return d
}

func (r *Resolver) resolve(ctx context.Context, s Strategy, e Entry) Decision {
	jobID := s.JobID(e)
	if jobID == "" {
		return Decision{
			Kind: KindError,
			Error: &SessionError{
				Code:    apperrors.ErrCodeJobIDRequired,
				Message: apperrors.NewJobIDRequiredError().Message,
				Action:  Action{Label: "Return to Dashboard", Href: RouteDashboard},
			},
		}
	}

	sessionID := strings.TrimSpace(e.Query.Get("session"))
	if sessionID == "" && s.SessionRequired() {
		return Decision{Kind: KindRedirect, Redirect: s.PrepareURL(jobID)}
	}

	log := r.log.WithFields(map[string]interface{}{
		"job_id":    jobID,
		"client_id": e.ClientID,
		"strategy":  s.Name(),
	})

	var (
		result  jobs.LookupResult
		jobErr  error
		prof    models.Profile
		profErr error
	)

	// Each goroutine owns its slot and never returns an error, so neither
	// fetch cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		result, jobErr = r.jobs.GetByID(ctx, jobID)
		return nil
	})
	g.Go(func() error {
		prof, profErr = r.profile.Get(ctx, e.ClientID)
		return nil
	})
	_ = g.Wait()

	if profErr != nil {
		log.Warn("Profile read failed, continuing as guest", map[string]interface{}{"error": profErr})
		prof = models.Profile{Class: models.UserGuest}
	}

	prepare := Action{Label: "Return to preparation", Href: s.PrepareURL(jobID)}
	switch {
	case jobErr != nil:
		log.Error("Job lookup failed", map[string]interface{}{"error": jobErr})
		return Decision{Kind: KindError, Error: &SessionError{
			Code:    apperrors.ErrCodeJobLookupFailed,
			Message: MessageFetchFailed,
			Action:  prepare,
		}}
	case result.Error != "":
		log.Info("Job lookup reported an error", map[string]interface{}{"message": result.Error})
		return Decision{Kind: KindError, Error: &SessionError{
			Code:    apperrors.ErrCodeJobNotFound,
			Message: result.Error,
			Action:  prepare,
		}}
	case result.Data == nil:
		return Decision{Kind: KindError, Error: &SessionError{
			Code:    apperrors.ErrCodeJobNotFound,
			Message: jobs.MessageJobNotFound,
			Action:  prepare,
		}}
	}

	return Decision{
		Kind: KindProceed,
		Session: &models.InterviewSession{
			SessionID: sessionID,
			JobID:     jobID,
			Job:       result.Data,
			User:      prof,
		},
		CompleteURL: s.CompleteURL(jobID, ""),
	}
}
