package noop

import (
	"context"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

// Ensure NoOpCache implements interfaces.StoreProvider
var _ interfaces.StoreProvider = (*NoOpCache)(nil)

// NoOpCache is a provider that never stores anything
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation provider
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Open returns a store that always misses
func (n *NoOpCache) Open(ctx context.Context, name string) (interfaces.Store, error) {
	return noopStore{}, nil
}

// Names always returns no generations
func (n *NoOpCache) Names(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

// Delete does nothing
func (n *NoOpCache) Delete(ctx context.Context, name string) (bool, error) {
	return false, nil
}

type noopStore struct{}

// Get always returns cache miss
func (noopStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	return nil, false, nil
}

// Put discards the entry
func (noopStore) Put(ctx context.Context, key string, entry *models.CacheEntry) error {
	return nil
}
