package sessionmgr

import "time"

// Role is the backend-assigned account role.
type Role string

const (
	RoleParent    Role = "parent"
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// UserProfile is the authenticated user's identity as served by the backend
// and cached locally as a JSON blob.
type UserProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Session is the authenticated identity held in memory by the manager.
// ExpiresAt is derived once from the access token's claims when the session
// is loaded or created, never re-derived per request.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserProfile
	ExpiresAt    time.Time
}

// Valid reports whether the session may be exposed as authenticated: the
// access token is present, the user is well-formed and the expiry is still
// in the future. A session failing any check is treated as absent and its
// persisted copy purged.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.AccessToken != "" && s.User.ID != "" && s.ExpiresAt.After(now)
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation request body. Registration does not
// imply login in this system.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Result is the uniform success/failure shape every operation returns, so
// screens need no per-call error handling. Message carries the classified
// failure text on failure; User is set when an operation produced or
// updated a profile.
type Result struct {
	Success bool
	Message string
	User    *UserProfile
}

func failure(message string) Result {
	return Result{Success: false, Message: message}
}
