// Package kvstore provides a uniform key/value storage abstraction with
// pluggable backends and a fail-soft wrapper for callers that must never
// observe a persistence failure.
//
// # Architecture
//
// Three backend tiers implement the Store interface:
//
//   - RedisStore — go-redis backed, for embedded or remote contexts;
//   - FileStore  — a JSON file in a writable data directory, the
//     persistent default on desktop and server platforms;
//   - MemoryStore — an in-process map, the always-available last resort.
//
// Resolve picks a tier exactly once at construction time:
//
//	store := kvstore.Resolve(ctx, cfg, log)
//
// # Fail-soft contract
//
// Session handling code consumes storage through NewFailSoft, which catches
// and logs every backend error and degrades to safe defaults (empty Get,
// no-op mutations). A broken store therefore reads as "no session found"
// instead of crashing the bootstrap path:
//
//	safe := kvstore.NewFailSoft(store, log)
//	token, _ := safe.Get(ctx, "sessionAccessToken") // never errors
package kvstore
