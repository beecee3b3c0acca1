// internal/models/job.go
package models

import "time"

type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	EmploymentType string    `json:"employmentType"`
	Skills         []string  `json:"skills"`
	PostedAt       time.Time `json:"postedAt"`
}

// JobSearchResult is one page of search hits.
type JobSearchResult struct {
	Total int64 `json:"total"`
	Jobs  []Job `json:"jobs"`
}
