package interfaces

import (
	"context"

	"go-sw-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Store is one cache generation: a key-value map of captured responses.
type Store interface {
	// Get returns the entry stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) (*models.CacheEntry, bool, error)
	// Put overwrites the entry stored under key.
	Put(ctx context.Context, key string, entry *models.CacheEntry) error
}

// StoreProvider owns every generation of a backend.
type StoreProvider interface {
	// Open returns the named generation, creating it when absent.
	Open(ctx context.Context, name string) (Store, error)
	// Names lists every existing generation.
	Names(ctx context.Context) ([]string, error)
	// Delete drops a generation with all its entries and reports whether it existed.
	Delete(ctx context.Context, name string) (bool, error)
}
