// Package sessionmgr orchestrates the client-side session lifecycle for the
// TheraFlow application: bootstrapping persisted credentials at startup,
// exposing login/register/logout/profile operations with a uniform result
// shape, and publishing the current session state to the UI layer.
//
// # Lifecycle
//
// A Manager is created once per process and starts in StateBootstrapping.
// Bootstrap reads the persisted access token, refresh token and user blob,
// validates them locally (JSON shape, decodable claims, unexpired) and
// settles into StateAuthenticated or StateUnauthenticated exactly once.
// Anything unusable in the cache is purged and degrades to the login flow;
// Bootstrap never fails.
//
// Afterwards the state moves between Authenticated, Unauthenticated and
// Error in response to operations and to gateway-triggered invalidation:
// when any API call is rejected with 401 the gateway purges storage, and
// the manager reconciles on its next observation.
//
// All session-mutating operations are serialized by a single lock, so a
// login cannot interleave with a logout or with bootstrap.
//
// # Usage
//
//	store := kvstore.NewFailSoft(kvstore.Resolve(ctx, storageCfg, log), log)
//	gw, _ := apigw.New(apiCfg, store, apigw.WithLogger(log))
//	mgr, _ := sessionmgr.New(store, gw, sessionmgr.WithLogger(log))
//
//	snapshot := mgr.Bootstrap(ctx) // terminal state before any screen renders
//
//	updates := mgr.Subscribe(ctx)
//	go func() {
//	    for snap := range updates {
//	        route(snap) // login screen vs. home screen
//	    }
//	}()
//
//	res := mgr.Login(ctx, sessionmgr.Credentials{Email: email, Password: pw})
//	if !res.Success {
//	    showError(res.Message)
//	}
package sessionmgr
