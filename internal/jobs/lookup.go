// internal/jobs/lookup.go
package jobs

import (
	"context"
	"errors"

	"interview-portal/internal/models"
)

// MessageJobNotFound is reported when a lookup finds nothing.
const MessageJobNotFound = "Job not found"

var (
	ErrJobIDRequired     = errors.New("JOB_ID_REQUIRED")
	ErrJobLookupFailed   = errors.New("JOB_LOOKUP_FAILED")
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
)

// LookupResult mirrors the platform API envelope. A message in Error is an
// expected outcome the caller branches on; unexpected failures come back as
// the Go error from GetByID instead.
type LookupResult struct {
	Data  *models.Job `json:"data"`
	Error string      `json:"error,omitempty"`
}

// Found reports whether the result carries a job.
func (r LookupResult) Found() bool {
	return r.Error == "" && r.Data != nil
}

// Lookup fetches one job by id.
type Lookup interface {
	GetByID(ctx context.Context, jobID string) (LookupResult, error)
}
