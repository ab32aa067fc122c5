package kvstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// FailSoft wraps a Store so that no operation ever reports an error to the
// caller. Underlying I/O failures are logged and degrade to safe defaults:
// Get resolves to an empty string, mutations resolve as no-ops.
//
// Session bootstrap depends on this contract: a broken persistence layer
// must read as "no session found", which safely falls back to the login
// flow, never as a crash.
type FailSoft struct {
	store Store
	log   *slog.Logger
}

// NewFailSoft wraps store with the fail-soft contract. A nil logger
// silently discards failure records.
func NewFailSoft(store Store, log *slog.Logger) *FailSoft {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FailSoft{store: store, log: log}
}

// Get returns the stored value, or an empty string when the key is missing
// or the backend fails. The returned error is always nil.
func (f *FailSoft) Get(ctx context.Context, key string) (string, error) {
	value, err := f.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			f.log.WarnContext(ctx, "kvstore get failed, resolving empty", "key", key, "error", err)
		}
		return "", nil
	}
	return value, nil
}

// Set stores the value; backend failures are logged and dropped.
func (f *FailSoft) Set(ctx context.Context, key, value string) error {
	if err := f.store.Set(ctx, key, value); err != nil {
		f.log.WarnContext(ctx, "kvstore set failed, dropping write", "key", key, "error", err)
	}
	return nil
}

// Remove deletes the value; backend failures are logged and dropped.
func (f *FailSoft) Remove(ctx context.Context, key string) error {
	if err := f.store.Remove(ctx, key); err != nil {
		f.log.WarnContext(ctx, "kvstore remove failed, dropping delete", "key", key, "error", err)
	}
	return nil
}

// Clear wipes the store; backend failures are logged and dropped.
func (f *FailSoft) Clear(ctx context.Context) error {
	if err := f.store.Clear(ctx); err != nil {
		f.log.WarnContext(ctx, "kvstore clear failed, dropping wipe", "error", err)
	}
	return nil
}

// Unwrap returns the wrapped backend store.
func (f *FailSoft) Unwrap() Store {
	return f.store
}
