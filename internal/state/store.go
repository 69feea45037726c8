// Package state persists small key-value settings, such as the last vault and
// folder used for a capture, between invocations.
package state

import "context"

// Keys written after every successful capture.
const (
	KeyVault  = "vault"
	KeyFolder = "folder"
)

// Store is the interface for key-value settings.
// Consumers should depend on this interface rather than a concrete store.
type Store interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Verify implementations satisfy Store at compile time.
var (
	_ Store = (*DB)(nil)
	_ Store = (*Memory)(nil)
)
