package interfaces

import "context"

// Storage is the persisted key-value capability. Items are opaque strings
// (JSON documents in practice).
type Storage interface {
	// GetItem returns the stored value and false when the key has never been set
	GetItem(ctx context.Context, key string) (string, bool, error)

	// SetItem creates or overwrites the value of key
	SetItem(ctx context.Context, key, value string) error

	Close() error
}
