// internal/interview/strategy.go
package interview

import (
	"net/url"
	"strings"
)

// Entry is what a request carries before any fetch happens.
type Entry struct {
	PathJobID string
	Query     url.Values
	ClientID  string
}

// Strategy decides how the job and session ids arrive and where the
// preparation and completion pages live for that entry protocol.
type Strategy interface {
	Name() string
	JobID(e Entry) string
	// SessionRequired reports whether a missing session id must redirect to
	// the preparation page instead of proceeding.
	SessionRequired() bool
	PrepareURL(jobID string) string
	CompleteURL(jobID, reason string) string
}

// PathScoped takes the job id from the path and requires the session id
// in the "session" query parameter.
type PathScoped struct{}

func (PathScoped) Name() string { return "path" }

func (PathScoped) JobID(e Entry) string { return strings.TrimSpace(e.PathJobID) }

func (PathScoped) SessionRequired() bool { return true }

func (PathScoped) PrepareURL(jobID string) string { return PreparePath(jobID) }

func (PathScoped) CompleteURL(jobID, reason string) string { return CompletePath(jobID, reason) }

// QueryScoped takes the job id from "jobId" or the legacy "id" alias. The
// chat obtains a session lazily from the job id.
type QueryScoped struct{}

func (QueryScoped) Name() string { return "query" }

func (QueryScoped) JobID(e Entry) string {
	if id := strings.TrimSpace(e.Query.Get("jobId")); id != "" {
		return id
	}
	return strings.TrimSpace(e.Query.Get("id"))
}

func (QueryScoped) SessionRequired() bool { return false }

func (QueryScoped) PrepareURL(jobID string) string { return QueryPreparePath(jobID) }

func (QueryScoped) CompleteURL(jobID, reason string) string { return QueryCompletePath(jobID, reason) }
