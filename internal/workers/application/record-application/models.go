// internal/workers/application/record-application/models.go
package recordapplication

import "encoding/json"

// Input mirrors the variables the portal starts the review process with.
type Input struct {
	ApplicationID  string          `json:"applicationId"`
	JobID          string          `json:"jobId"`
	Shape          string          `json:"shape"`
	Payload        json.RawMessage `json:"payload"`
	ApplicantEmail string          `json:"applicantEmail"`
	ApplicantPhone string          `json:"applicantPhone"`
	ApplicantName  string          `json:"applicantName"`
}

type Output struct {
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	CreatedAt         string `json:"createdAt"` // RFC 3339
}
