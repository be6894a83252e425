package storage

import "context"

// Storage is a string key/value store with local-storage semantics:
// reading a missing key yields "" and no error.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	// Clear removes every key the store owns.
	Clear(ctx context.Context) error
	// Supported reports whether the backend is usable right now.
	Supported() bool
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}
