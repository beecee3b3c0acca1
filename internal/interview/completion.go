// internal/interview/completion.go
package interview

import "strings"

// Completion reasons reported by the chat.
const (
	ReasonCompleted  = "completed"
	ReasonTerminated = "terminated"
	ReasonTimeUp     = "time_up"
)

type Action struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Bundle is everything the completion screen shows.
type Bundle struct {
	Reason      string   `json:"reason"`
	Icon        string   `json:"icon"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	ColorScheme string   `json:"colorScheme"`
	Actions     []Action `json:"actions"`
}

var bundles = map[string]Bundle{
	ReasonCompleted: {
		Icon:        "check-circle",
		Title:       "Interview Completed",
		Message:     "Thank you for completing the interview. Your responses have been submitted for review.",
		ColorScheme: "green",
	},
	ReasonTerminated: {
		Icon:        "x-circle",
		Title:       "Interview Terminated",
		Message:     "The interview was ended before completion. If you believe this was a mistake, please contact support.",
		ColorScheme: "red",
	},
	ReasonTimeUp: {
		Icon:        "clock",
		Title:       "Time's Up",
		Message:     "The time allotted for this interview has run out. Your answers so far have been recorded.",
		ColorScheme: "amber",
	},
}

var fallbackBundle = Bundle{
	Icon:        "info",
	Title:       "Interview Ended",
	Message:     "Your interview session has ended.",
	ColorScheme: "gray",
}

// Complete maps any reason, known or not, to a display bundle.
func Complete(reason string) Bundle {
	key := strings.ToLower(strings.TrimSpace(reason))
	b, ok := bundles[key]
	if !ok {
		b = fallbackBundle
	}
	b.Reason = key
	b.Actions = []Action{
		{Label: "Return to Dashboard", Href: RouteDashboard},
		{Label: "View Applications", Href: RouteApplications},
	}
	return b
}

// KnownReason reports whether reason has its own bundle.
func KnownReason(reason string) bool {
	_, ok := bundles[strings.ToLower(strings.TrimSpace(reason))]
	return ok
}
