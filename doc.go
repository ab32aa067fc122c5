// Package clientkit is the client-side session and API-gateway layer for
// the TheraFlow therapy-services application: it establishes whether a user
// is authenticated, persists and validates credentials across restarts and
// platforms, attaches credentials to every outbound request, classifies
// failures into a stable taxonomy, and tears down local session state when
// the backend rejects a credential.
//
// The layer is built from four packages, composed by New:
//
//   - pkg/kvstore — key/value persistence with a three-tier backend
//     fallback (redis, file, memory) and a fail-soft wrapper;
//   - pkg/tokenclaims — decode-only bearer token claims for local expiry
//     checks;
//   - pkg/apigw — the single HTTP chokepoint with the error taxonomy and
//     the purge-on-401 side effect;
//   - pkg/sessionmgr — the session lifecycle: bootstrap, login, register,
//     logout, profile updates, and published state.
//
// Basic usage:
//
//	cfg, err := clientkit.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := clientkit.New(ctx, cfg, clientkit.WithLogger(logger.New()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Bootstrap settles into a terminal state before any screen renders.
//	snapshot := client.Sessions.Bootstrap(ctx)
//	if snapshot.Authenticated() {
//	    showHome(snapshot.User)
//	} else {
//	    showLogin()
//	}
//
// Every other backend call flows through client.Gateway, which attaches
// the stored bearer token and returns classified *apigw.Error values.
package clientkit
