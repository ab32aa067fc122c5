package sessionmgr

// State is the manager's lifecycle position. The manager enters
// StateBootstrapping at construction and leaves it exactly once; afterwards
// it moves between the other three states in response to operations and
// gateway-triggered invalidation.
type State int

const (
	StateBootstrapping State = iota
	StateAuthenticated
	StateUnauthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateBootstrapping:
		return "bootstrapping"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the published session state read by the UI layer. User is set
// only in StateAuthenticated; Message only in StateError.
type Snapshot struct {
	State   State
	User    *UserProfile
	Message string
}

// Authenticated reports whether the snapshot carries a usable session.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}
