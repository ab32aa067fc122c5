package sessionmgr

import "time"

// Config holds the manager's tunables. Fields can be populated from
// environment variables via the config package.
type Config struct {
	// BootstrapDelay is a short settle pause before the first storage
	// read. Some platform storage bindings are not ready at the exact
	// moment the process starts; the pause is a pragmatic guard against
	// that startup race, not a correctness guarantee.
	BootstrapDelay time.Duration `env:"SESSION_BOOTSTRAP_DELAY" envDefault:"50ms"`
}
