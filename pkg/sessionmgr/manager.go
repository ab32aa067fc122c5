package sessionmgr

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/theraflow/clientkit/pkg/apigw"
	"github.com/theraflow/clientkit/pkg/kvstore"
	"github.com/theraflow/clientkit/pkg/tokenclaims"
)

// Backend auth endpoints used by the manager. All other endpoints are
// called by the UI layer directly through the gateway.
const (
	loginPath    = "/auth/login"
	registerPath = "/auth/register"
	logoutPath   = "/auth/logout"
	profilePath  = "/auth/profile"
)

// Gateway is the slice of the API gateway the manager needs. *apigw.Client
// satisfies it.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
}

// Manager orchestrates the session lifecycle: it bootstraps session state
// at startup, exposes login/register/logout/profile operations and
// publishes the current state to the rest of the application.
//
// The manager is the sole writer of the three session keys in storage; the
// gateway holds a narrow exception to delete (never write) them on auth
// failures, which the manager observes lazily on its next storage read.
type Manager struct {
	store kvstore.Store
	gw    Gateway
	log   *slog.Logger
	cfg   Config
	now   func() time.Time

	// mu serializes every operation that reads-modifies-writes the
	// session keys, so a login cannot interleave with a logout or a
	// concurrent bootstrap.
	mu           sync.Mutex
	bootstrapped bool
	session      *Session

	stateMu sync.RWMutex
	current Snapshot

	hub *hub
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithBootstrapDelay overrides the settle pause before the first storage
// read. Zero disables it; tests use this.
func WithBootstrapDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.cfg.BootstrapDelay = d
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a manager in StateBootstrapping. Call Bootstrap before
// routing any UI: it is guaranteed to settle into a terminal state, and the
// explicit call gives the application the ordering guarantee that no
// authenticated or unauthenticated screen renders mid-bootstrap.
func New(store kvstore.Store, gw Gateway, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if gw == nil {
		return nil, ErrNilGateway
	}

	m := &Manager{
		store:   store,
		gw:      gw,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:     Config{BootstrapDelay: 50 * time.Millisecond},
		now:     time.Now,
		current: Snapshot{State: StateBootstrapping},
		hub:     newHub(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// State returns the current published snapshot.
func (m *Manager) State() Snapshot {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.current
}

// Subscribe returns a channel receiving every state transition until ctx is
// cancelled. Slow subscribers drop intermediate snapshots; State always
// reflects the latest.
func (m *Manager) Subscribe(ctx context.Context) <-chan Snapshot {
	return m.hub.subscribe(ctx)
}

// Close shuts down state publication.
func (m *Manager) Close() error {
	m.hub.close()
	return nil
}

// Bootstrap loads the persisted session and settles into a terminal state;
// it runs its logic exactly once, subsequent calls return the current
// snapshot. It never fails: a corrupt local cache degrades to
// StateUnauthenticated (with a purge) so it can never lock the user out of
// the login screen.
func (m *Manager) Bootstrap(ctx context.Context) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bootstrapped {
		return m.State()
	}
	m.bootstrapped = true

	// Corrupt cached state must never keep the app stuck in
	// bootstrapping, whatever went wrong.
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("bootstrap panicked, degrading to unauthenticated", "panic", r)
			m.session = nil
			m.setState(Snapshot{State: StateUnauthenticated})
		}
	}()

	if m.cfg.BootstrapDelay > 0 {
		select {
		case <-time.After(m.cfg.BootstrapDelay):
		case <-ctx.Done():
		}
	}

	session, ok := m.loadSession(ctx)
	if !ok {
		m.session = nil
		m.setState(Snapshot{State: StateUnauthenticated})
		return m.State()
	}

	m.session = session
	m.setState(Snapshot{State: StateAuthenticated, User: &session.User})
	return m.State()
}

// loadSession reads and validates the persisted session. It purges storage
// when the cached state is present but unusable (malformed blob, undecodable
// token, expired token); merely absent state is left alone.
func (m *Manager) loadSession(ctx context.Context) (*Session, bool) {
	token, _ := m.store.Get(ctx, apigw.SessionKeyAccessToken)
	blob, _ := m.store.Get(ctx, apigw.SessionKeyUserBlob)

	if token == "" || blob == "" {
		return nil, false
	}

	var user UserProfile
	if err := json.Unmarshal([]byte(blob), &user); err != nil || user.ID == "" {
		m.log.WarnContext(ctx, "cached user blob unusable, purging session", "error", err)
		m.purge(ctx)
		return nil, false
	}

	claims, err := tokenclaims.Decode(token)
	if err != nil {
		m.log.WarnContext(ctx, "cached access token undecodable, purging session", "error", err)
		m.purge(ctx)
		return nil, false
	}
	if claims.Expired(m.now()) {
		m.log.InfoContext(ctx, "cached access token expired, purging session")
		m.purge(ctx)
		return nil, false
	}

	refresh, _ := m.store.Get(ctx, apigw.SessionKeyRefreshToken)

	return &Session{
		AccessToken:  token,
		RefreshToken: refresh,
		User:         user,
		ExpiresAt:    claims.ExpiresAt,
	}, true
}

// loginPayload is the backend's login/register data object: tokens plus the
// user profile fields flattened alongside them.
type loginPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserProfile
}

// Login authenticates against the backend and, on success, persists the
// session and transitions to StateAuthenticated. On failure the stored
// session data is left untouched and the classified message is surfaced in
// the Result; an already unauthenticated manager stays unauthenticated.
func (m *Manager) Login(ctx context.Context, creds Credentials) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	var payload loginPayload
	if err := m.gw.Post(ctx, loginPath, creds, &payload); err != nil {
		return m.operationFailure(ctx, err)
	}

	session := &Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		User:         payload.UserProfile,
	}

	// Expiry is derived once, here; an undecodable token is still a
	// server-accepted login, it just fails local validation at the next
	// bootstrap.
	if claims, err := tokenclaims.Decode(payload.AccessToken); err == nil {
		session.ExpiresAt = claims.ExpiresAt
	} else {
		m.log.WarnContext(ctx, "login token claims undecodable", "error", err)
	}

	m.persistSession(ctx, session)
	m.session = session
	m.setState(Snapshot{State: StateAuthenticated, User: &session.User})

	return Result{Success: true, User: &session.User}
}

// Register creates an account. It does not mutate session state, since
// registration does not imply login in this system; the Result exists for
// UI display only.
func (m *Manager) Register(ctx context.Context, reg Registration) Result {
	if err := m.gw.Post(ctx, registerPath, reg, nil); err != nil {
		return failure(classifiedMessage(err))
	}
	return Result{Success: true}
}

// Logout makes a best-effort backend logout call, then unconditionally
// purges local storage and transitions to StateUnauthenticated. The
// security property that matters is that no stale token remains on this
// device, so the local teardown never depends on the backend answering.
func (m *Manager) Logout(ctx context.Context) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.gw.Post(ctx, logoutPath, nil, nil); err != nil {
		m.log.WarnContext(ctx, "backend logout failed, clearing local session anyway", "error", err)
	}

	m.purge(ctx)
	m.session = nil
	m.setState(Snapshot{State: StateUnauthenticated})

	return Result{Success: true}
}

// UpdateProfile submits profile changes. On success only the persisted user
// blob is overwritten (the tokens stay byte-identical) and the in-memory
// session is updated. On failure everything is left untouched and the
// classified message surfaced.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	var user UserProfile
	if err := m.gw.Put(ctx, profilePath, update, &user); err != nil {
		return m.operationFailure(ctx, err)
	}

	return m.applyProfile(ctx, user)
}

// RefreshProfile re-fetches the profile from the backend and persists it
// like UpdateProfile does, picking up server-side changes.
func (m *Manager) RefreshProfile(ctx context.Context) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	var user UserProfile
	if err := m.gw.Get(ctx, profilePath, &user); err != nil {
		return m.operationFailure(ctx, err)
	}

	return m.applyProfile(ctx, user)
}

func (m *Manager) applyProfile(ctx context.Context, user UserProfile) Result {
	blob, err := json.Marshal(user)
	if err != nil {
		// Profiles are plain data; this cannot realistically fail, but a
		// failed encode must not corrupt the stored blob.
		m.log.ErrorContext(ctx, "profile encode failed, keeping stored blob", "error", err)
		return failure("The profile could not be saved locally.")
	}

	_ = m.store.Set(ctx, apigw.SessionKeyUserBlob, string(blob))

	if m.session != nil {
		m.session.User = user
		m.setState(Snapshot{State: StateAuthenticated, User: &user})
	}

	return Result{Success: true, User: &user}
}

// operationFailure turns a gateway error into a Result and reconciles state
// with the gateway's purge side effect: an auth failure means the stored
// session is already gone, so an authenticated manager transitions to
// StateError carrying the classified message. A manager that was not
// authenticated keeps its state (failed logins stay unauthenticated).
func (m *Manager) operationFailure(ctx context.Context, err error) Result {
	msg := classifiedMessage(err)

	if apiErr, ok := apigw.AsError(err); ok && apiErr.IsAuthError() {
		if m.session != nil {
			m.log.InfoContext(ctx, "session invalidated by gateway", "code", string(apiErr.AuthCode))
			m.session = nil
			m.setState(Snapshot{State: StateError, Message: msg})
		}
	}

	return failure(msg)
}

func (m *Manager) persistSession(ctx context.Context, session *Session) {
	blob, err := json.Marshal(session.User)
	if err != nil {
		m.log.ErrorContext(ctx, "user blob encode failed", "error", err)
		blob = []byte("{}")
	}

	_ = m.store.Set(ctx, apigw.SessionKeyAccessToken, session.AccessToken)
	_ = m.store.Set(ctx, apigw.SessionKeyRefreshToken, session.RefreshToken)
	_ = m.store.Set(ctx, apigw.SessionKeyUserBlob, string(blob))
}

func (m *Manager) purge(ctx context.Context) {
	for _, key := range apigw.SessionKeys {
		_ = m.store.Remove(ctx, key)
	}
}

func (m *Manager) setState(snapshot Snapshot) {
	m.stateMu.Lock()
	m.current = snapshot
	m.stateMu.Unlock()

	m.hub.publish(snapshot)
}

func classifiedMessage(err error) string {
	if apiErr, ok := apigw.AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}
