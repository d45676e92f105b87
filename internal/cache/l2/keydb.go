package l2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-sw-cache/internal/config"
	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

// Ensure KeyDBCache implements interfaces.StoreProvider
var _ interfaces.StoreProvider = (*KeyDBCache)(nil)

// KeyDBCache stores each generation as one KeyDB hash and tracks
// generation names in a set.
//
//	<prefix>:generations  set of generation names
//	<prefix>:gen:<name>   hash of cache key -> JSON entry
type KeyDBCache struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client
func NewKeyDBCache(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *KeyDBCache {
	return &KeyDBCache{
		client: client,
		config: cfg,
		logger: logger,
	}
}

func (kc *KeyDBCache) generationsKey() string {
	return kc.config.KeyPrefix + ":generations"
}

func (kc *KeyDBCache) hashKey(name string) string {
	return kc.config.KeyPrefix + ":gen:" + name
}

// Open registers the generation name and returns a store over its hash
func (kc *KeyDBCache) Open(ctx context.Context, name string) (interfaces.Store, error) {
	ctx, cancel := withTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.SAdd(ctx, kc.generationsKey(), name).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return nil, fmt.Errorf("failed to register generation %q: %w", name, err)
	}

	return &generationStore{
		name:    name,
		hashKey: kc.hashKey(name),
		parent:  kc,
	}, nil
}

// Names lists registered generations
func (kc *KeyDBCache) Names(ctx context.Context) ([]string, error) {
	ctx, cancel := withTimeout(ctx, kc.config.GetReadTimeout())
	defer cancel()

	names, err := kc.client.SMembers(ctx, kc.generationsKey()).Result()
	if err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the generation hash and its registration
func (kc *KeyDBCache) Delete(ctx context.Context, name string) (bool, error) {
	ctx, cancel := withTimeout(ctx, kc.config.GetSendTimeout())
	defer cancel()

	removed, err := kc.client.SRem(ctx, kc.generationsKey(), name).Result()
	if err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return false, fmt.Errorf("failed to unregister generation %q: %w", name, err)
	}

	if err := kc.client.Del(ctx, kc.hashKey(name)).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return removed > 0, fmt.Errorf("failed to delete generation %q: %w", name, err)
	}

	return removed > 0, nil
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}

// generationStore is one generation hash
type generationStore struct {
	name    string
	hashKey string
	parent  *KeyDBCache
}

// Get retrieves an entry from the generation hash
func (g *generationStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	ctx, cancel := withTimeout(ctx, g.parent.config.GetReadTimeout())
	defer cancel()

	data, err := g.parent.client.HGet(ctx, g.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return nil, false, fmt.Errorf("L2 cache get error: %w", err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		g.parent.logger.Error("Failed to unmarshal L2 cache entry",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("l2", "decode")
		return nil, false, nil
	}

	return &entry, true, nil
}

// Put writes an entry into the generation hash
func (g *generationStore) Put(ctx context.Context, key string, entry *models.CacheEntry) error {
	ctx, cancel := withTimeout(ctx, g.parent.config.GetSendTimeout())
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheError("l2", "encode")
		return fmt.Errorf("failed to marshal L2 cache entry: %w", err)
	}

	if err := g.parent.client.HSet(ctx, g.hashKey, key, data).Err(); err != nil {
		metrics.RecordCacheError("l2", "upstream")
		return fmt.Errorf("failed to set L2 cache entry: %w", err)
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
