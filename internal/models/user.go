// internal/models/user.go
package models

// UserClass is the three-state classification derived from the stored user.
type UserClass string

const (
	UserGuest     UserClass = "guest"
	UserHasResume UserClass = "has-resume"
	UserNoResume  UserClass = "no-resume"
)

// User is the client-local user record stored under the "user" key.
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	HasResume bool   `json:"hasResume"`
}

// Profile is a resolved user with its classification. User is nil for guests.
type Profile struct {
	User  *User     `json:"user"`
	Class UserClass `json:"class"`
}

// Classify derives the classification for a possibly absent user.
func Classify(u *User) UserClass {
	switch {
	case u == nil:
		return UserGuest
	case u.HasResume:
		return UserHasResume
	default:
		return UserNoResume
	}
}
