// internal/workers/application/send-confirmation/models.go
package sendconfirmation

import "interview-portal/internal/models"

type Input struct {
	ApplicationID  string `json:"applicationId"`
	JobID          string `json:"jobId"`
	ApplicantEmail string `json:"applicantEmail"`
	ApplicantPhone string `json:"applicantPhone"`
	ApplicantName  string `json:"applicantName"`
}

type Output struct {
	Status        string                `json:"notificationStatus"`
	Notifications []models.Notification `json:"notifications"`
}

const TypeApplicationReceived = "application_received"

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
