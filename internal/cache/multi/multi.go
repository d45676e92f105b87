package multi

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// Ensure MultiCache implements interfaces.StoreProvider
var _ interfaces.StoreProvider = (*MultiCache)(nil)

// MultiCache layers several providers, fastest first.
// Reads go through the layers in order and back-fill the faster ones on a hit;
// writes and deletes go to every layer, with the last layer deciding whether
// a write succeeded.
type MultiCache struct {
	caches []interfaces.StoreProvider
	logger *zap.Logger
}

// NewMultiCache creates a new MultiCache instance with provided providers
func NewMultiCache(caches []interfaces.StoreProvider, logger *zap.Logger) *MultiCache {
	return &MultiCache{
		caches: caches,
		logger: logger,
	}
}

// Open opens the generation on every layer
func (mc *MultiCache) Open(ctx context.Context, name string) (interfaces.Store, error) {
	if len(mc.caches) == 0 {
		return nil, errors.New("no cache layers configured")
	}

	stores := make([]interfaces.Store, 0, len(mc.caches))
	for _, cache := range mc.caches {
		store, err := cache.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return &multiStore{name: name, stores: stores, logger: mc.logger}, nil
}

// Names returns the union of generation names across layers
func (mc *MultiCache) Names(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var errs []error
	for _, cache := range mc.caches {
		names, err := cache.Names(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}
	if len(errs) > 0 && len(errs) == len(mc.caches) {
		return nil, errors.Join(errs...)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the generation from every layer.
// It reports true when any layer held it.
func (mc *MultiCache) Delete(ctx context.Context, name string) (bool, error) {
	deleted := false
	var errs []error
	for _, cache := range mc.caches {
		ok, err := cache.Delete(ctx, name)
		if err != nil {
			errs = append(errs, err)
		}
		deleted = deleted || ok
	}
	return deleted, errors.Join(errs...)
}

// GetCacheCount returns the number of layers
func (mc *MultiCache) GetCacheCount() int {
	return len(mc.caches)
}

type multiStore struct {
	name   string
	stores []interfaces.Store
	logger *zap.Logger
}

func (ms *multiStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	var firstErr error
	for i, store := range ms.stores {
		entry, found, err := store.Get(ctx, key)
		if err != nil {
			ms.logger.Warn("Cache layer read failed",
				zap.String("generation", ms.name),
				zap.Int("layer", i),
				zap.String("key", key),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if !found {
			continue
		}

		for _, faster := range ms.stores[:i] {
			if err := faster.Put(ctx, key, entry); err != nil {
				ms.logger.Debug("Cache layer back-fill failed",
					zap.String("generation", ms.name),
					zap.String("key", key),
					zap.Error(err))
			}
		}
		return entry, true, nil
	}
	return nil, false, firstErr
}

// Put writes every layer. Only the last layer is authoritative: failures of
// the faster layers are logged and counted, a later read back-fills them.
func (ms *multiStore) Put(ctx context.Context, key string, entry *models.CacheEntry) error {
	last := len(ms.stores) - 1
	for i, store := range ms.stores {
		err := store.Put(ctx, key, entry)
		if err == nil {
			continue
		}
		if i == last {
			return err
		}
		ms.logger.Warn("Cache layer write failed",
			zap.String("generation", ms.name),
			zap.Int("layer", i),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("multi", "layer_write")
	}
	return nil
}
