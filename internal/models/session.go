// internal/models/session.go
package models

// InterviewSession is resolved per request and never persisted. SessionID
// may be empty when the chat obtains it lazily from the job id.
type InterviewSession struct {
	SessionID string  `json:"sessionId,omitempty"`
	JobID     string  `json:"jobId"`
	Job       *Job    `json:"job,omitempty"`
	User      Profile `json:"user"`
}
