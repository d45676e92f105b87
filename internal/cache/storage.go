package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// Storage hands out versioned store handles over a provider
type Storage struct {
	provider   interfaces.StoreProvider
	keyBuilder interfaces.KeyBuilder
	logger     *zap.Logger
}

// NewStorage creates a Storage over provider
func NewStorage(provider interfaces.StoreProvider, keyBuilder interfaces.KeyBuilder, logger *zap.Logger) *Storage {
	if keyBuilder == nil {
		keyBuilder = NewKeyBuilder()
	}
	return &Storage{
		provider:   provider,
		keyBuilder: keyBuilder,
		logger:     logger,
	}
}

// Open opens (creating if absent) the named generation
func (s *Storage) Open(ctx context.Context, name string) (*Handle, error) {
	if name == "" {
		return nil, errors.New("generation name cannot be empty")
	}

	store, err := s.provider.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open generation %q: %w", name, err)
	}

	return NewHandle(name, store, s.keyBuilder, s.logger), nil
}

// Names lists every existing generation
func (s *Storage) Names(ctx context.Context) ([]string, error) {
	return s.provider.Names(ctx)
}

// Delete drops a generation
func (s *Storage) Delete(ctx context.Context, name string) (bool, error) {
	return s.provider.Delete(ctx, name)
}

// KeyBuilder returns the key builder shared by every handle
func (s *Storage) KeyBuilder() interfaces.KeyBuilder {
	return s.keyBuilder
}

// Handle is one open generation addressed by request identity
type Handle struct {
	generation string
	store      interfaces.Store
	keyBuilder interfaces.KeyBuilder
	logger     *zap.Logger
}

// NewHandle binds store to a generation name
func NewHandle(generation string, store interfaces.Store, keyBuilder interfaces.KeyBuilder, logger *zap.Logger) *Handle {
	if keyBuilder == nil {
		keyBuilder = NewKeyBuilder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handle{
		generation: generation,
		store:      store,
		keyBuilder: keyBuilder,
		logger:     logger,
	}
}

// Generation returns the generation name
func (h *Handle) Generation() string {
	return h.generation
}

// Store returns the underlying generation store
func (h *Handle) Store() interfaces.Store {
	return h.store
}

// Cacheable reports whether req has an identity the store can hold
func (h *Handle) Cacheable(req *models.Request) bool {
	_, err := h.keyBuilder.Build(req)
	return err == nil
}

// Match looks req up. Read errors and uncacheable requests are misses.
func (h *Handle) Match(ctx context.Context, req *models.Request) (*models.Response, bool) {
	key, err := h.keyBuilder.Build(req)
	if err != nil {
		if !errors.Is(err, ErrUncacheableMethod) {
			h.logger.Debug("Cannot build cache key", zap.Stringer("request", req), zap.Error(err))
		}
		return nil, false
	}

	timer := metrics.TimeCacheOperation("get", "store")
	entry, found, err := h.store.Get(ctx, key)
	timer()
	if err != nil {
		h.logger.Warn("Store read failed, treating as miss",
			zap.String("generation", h.generation),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("store", "read")
		return nil, false
	}
	if !found || entry == nil {
		return nil, false
	}

	return entry.Response(), true
}

// Put stores resp under req's identity, overwriting any previous entry
func (h *Handle) Put(ctx context.Context, req *models.Request, resp *models.Response) error {
	if resp == nil {
		return errors.New("response cannot be nil")
	}

	key, err := h.keyBuilder.Build(req)
	if err != nil {
		return err
	}

	timer := metrics.TimeCacheOperation("put", "store")
	defer timer()

	if err := h.store.Put(ctx, key, models.NewCacheEntry(resp)); err != nil {
		return fmt.Errorf("failed to store %s in %q: %w", key, h.generation, err)
	}
	return nil
}
