// internal/models/notification.go
package models

// NotificationTemplate is a message rendered with {{placeholder}} values.
type NotificationTemplate struct {
	Type     string `json:"type"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	HTMLBody string `json:"htmlBody,omitempty"`
}

// Notification records one delivery attempt across channels.
type Notification struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Channel  string `json:"channel"` // "email", "sms"
	Status   string `json:"status"`  // "sent", "failed", "disabled"
	SentAt   string `json:"sentAt"`
	Provider string `json:"providerMessageId,omitempty"`
}
