package l1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-sw-cache/internal/config"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
	"go-sw-cache/internal/scheduler"
)

// Entries only leave a generation when the generation is deleted, so the
// life window is effectively unbounded.
const lifeWindow = 100 * 365 * 24 * time.Hour

// Ensure BigCache implements interfaces.StoreProvider
var _ interfaces.StoreProvider = (*BigCache)(nil)

// BigCache keeps one bigcache instance per generation in memory
type BigCache struct {
	cfg              config.BigCacheConfig
	logger           *zap.Logger
	mu               sync.RWMutex
	generations      map[string]*bigcache.BigCache
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new in-memory provider
func NewBigCache(cfg config.BigCacheConfig, logger *zap.Logger) (*BigCache, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("invalid L1 size %d MB", cfg.Size)
	}

	bc := &BigCache{
		cfg:         cfg,
		logger:      logger,
		generations: make(map[string]*bigcache.BigCache),
	}

	// Start periodic metrics collection
	bc.startMetricsCollection()

	return bc, nil
}

// Open returns the named generation, creating it when absent
func (bc *BigCache) Open(ctx context.Context, name string) (interfaces.Store, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if cache, ok := bc.generations[name]; ok {
		return &generationStore{name: name, cache: cache, logger: bc.logger}, nil
	}

	cache, err := bigcache.New(context.Background(), bc.bigcacheConfig())
	if err != nil {
		return nil, err
	}
	bc.generations[name] = cache

	return &generationStore{name: name, cache: cache, logger: bc.logger}, nil
}

// Names lists every generation held in memory
func (bc *BigCache) Names(ctx context.Context) ([]string, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	names := make([]string, 0, len(bc.generations))
	for name := range bc.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete closes and forgets a generation
func (bc *BigCache) Delete(ctx context.Context, name string) (bool, error) {
	bc.mu.Lock()
	cache, ok := bc.generations[name]
	delete(bc.generations, name)
	bc.mu.Unlock()

	if !ok {
		return false, nil
	}
	return true, cache.Close()
}

// Close closes every generation
func (bc *BigCache) Close() error {
	// Stop metrics collection
	bc.stopMetricsCollection()

	bc.mu.Lock()
	defer bc.mu.Unlock()

	var errs []error
	for name, cache := range bc.generations {
		if err := cache.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(bc.generations, name)
	}
	return errors.Join(errs...)
}

// GetStats returns capacity and used bytes summed over generations
func (bc *BigCache) GetStats() (capacity, used int64, entries int64) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	for _, cache := range bc.generations {
		capacity += int64(bc.cfg.Size) * 1024 * 1024
		used += int64(cache.Capacity())
		entries += int64(cache.Len())
	}
	return capacity, used, entries
}

func (bc *BigCache) bigcacheConfig() bigcache.Config {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = 0
	cfg.HardMaxCacheSize = bc.cfg.Size // Size in MB
	cfg.Verbose = false
	if bc.cfg.Shards > 0 {
		cfg.Shards = bc.cfg.Shards
	}
	if bc.cfg.MaxEntrySize > 0 {
		cfg.MaxEntrySize = bc.cfg.MaxEntrySize
	}
	return cfg
}

// startMetricsCollection starts periodic metrics collection
func (bc *BigCache) startMetricsCollection() {
	bc.metricsScheduler = scheduler.New(30*time.Second, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

// stopMetricsCollection stops periodic metrics collection
func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (bc *BigCache) updateMetrics() {
	capacity, used, entries := bc.GetStats()
	metrics.UpdateL1CacheCapacity(capacity, used)
	metrics.UpdateCacheKeys("l1", entries)
}

// generationStore is one generation backed by its own bigcache
type generationStore struct {
	name   string
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// Get retrieves an entry
func (g *generationStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	data, err := g.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		g.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError("l1", "decode")
		_ = g.cache.Delete(key) // Remove corrupted entry
		return nil, false, nil
	}

	return &entry, true, nil
}

// Put stores an entry, replacing any previous one
func (g *generationStore) Put(ctx context.Context, key string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheError("l1", "encode")
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := g.cache.Set(key, data); err != nil {
		metrics.RecordCacheError("l1", "upstream")
		return fmt.Errorf("failed to set L1 entry: %w", err)
	}
	return nil
}
