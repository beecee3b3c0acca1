// internal/interview/routes.go
package interview

import (
	"net/url"
)

const (
	RouteDashboard    = "/dashboard"
	RouteApplications = "/applications"
	RouteLogin        = "/login"
)

// PreparePath is the path-scoped preparation page for a job.
func PreparePath(jobID string) string {
	return "/interview/" + url.PathEscape(jobID) + "/prepare"
}

// CompletePath is the path-scoped completion page.
func CompletePath(jobID, reason string) string {
	return "/interview/" + url.PathEscape(jobID) + "/complete?" + url.Values{"reason": {reason}}.Encode()
}

// QueryPreparePath is the query-scoped preparation page.
func QueryPreparePath(jobID string) string {
	return "/interview/job/prepare?" + url.Values{"jobId": {jobID}}.Encode()
}

// QueryCompletePath is the query-scoped completion page.
func QueryCompletePath(jobID, reason string) string {
	return "/interview/job/complete?" + url.Values{"jobId": {jobID}, "reason": {reason}}.Encode()
}

// LoginPath sends the browser to login and back to next afterwards.
func LoginPath(next string) string {
	if next == "" {
		return RouteLogin
	}
	return RouteLogin + "?" + url.Values{"next": {next}}.Encode()
}
