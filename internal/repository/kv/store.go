package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value for the profile.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistent key-value storage shared by everything serving one
// browser profile. Keys are namespaced by profile id.
type Store interface {
	Get(ctx context.Context, profileID, key string) (string, error)
	Set(ctx context.Context, profileID, key, value string) error
	Delete(ctx context.Context, profileID string, keys ...string) error
	Close() error
}
