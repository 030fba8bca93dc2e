// Package store is the client-local storage of the fintrade client: a small
// key/value space that survives restarts, playing the part browser
// localStorage plays for a web client.
package store

import "context"

// Storage is a string key/value store.
type Storage interface {
	// GetItem returns the value for key and whether it was present.
	GetItem(ctx context.Context, key string) (string, bool, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}
