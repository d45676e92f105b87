// Package sqlite persists cache generations in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/metrics"
	"go-sw-cache/internal/models"
)

//go:embed schema.sql
var schema string

var _ interfaces.StoreProvider = (*Store)(nil)

// Store is a durable provider; every generation is a set of rows keyed by name.
type Store struct {
	sqlDB  *sql.DB
	logger *zap.Logger
}

// Open opens the database at path and ensures the schema exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	logger.Info("Opened SQLite cache store", zap.String("path", cleanPath))
	return &Store{sqlDB: sqlDB, logger: logger}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Open registers the generation if needed and returns its store.
func (s *Store) Open(ctx context.Context, name string) (interfaces.Store, error) {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO generations (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, time.Now().UTC().UnixMilli())
	if err != nil {
		metrics.RecordCacheError("sqlite", "upstream")
		return nil, fmt.Errorf("register generation %q: %w", name, err)
	}
	return &generationStore{name: name, parent: s}, nil
}

// Names lists generations in name order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM generations ORDER BY name`)
	if err != nil {
		metrics.RecordCacheError("sqlite", "upstream")
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return names, nil
}

// Delete removes a generation; its entries cascade.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM generations WHERE name = ?`, name)
	if err != nil {
		metrics.RecordCacheError("sqlite", "upstream")
		return false, fmt.Errorf("delete generation %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete generation %q: %w", name, err)
	}
	return n > 0, nil
}

// Count returns the number of entries stored across generations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

type generationStore struct {
	name   string
	parent *Store
}

func (g *generationStore) Get(ctx context.Context, key string) (*models.CacheEntry, bool, error) {
	var data []byte
	err := g.parent.sqlDB.QueryRowContext(ctx,
		`SELECT entry FROM entries WHERE generation = ? AND cache_key = ?`,
		g.name, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError("sqlite", "upstream")
		return nil, false, fmt.Errorf("read entry: %w", err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		g.parent.logger.Warn("Failed to unmarshal SQLite cache entry",
			zap.String("generation", g.name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError("sqlite", "decode")
		return nil, false, nil
	}
	return &entry, true, nil
}

func (g *generationStore) Put(ctx context.Context, key string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheError("sqlite", "encode")
		return fmt.Errorf("marshal entry: %w", err)
	}

	_, err = g.parent.sqlDB.ExecContext(ctx,
		`INSERT INTO entries (generation, cache_key, entry, stored_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(generation, cache_key) DO UPDATE SET
		   entry = excluded.entry,
		   stored_at = excluded.stored_at`,
		g.name, key, data, entry.StoredAt)
	if err != nil {
		metrics.RecordCacheError("sqlite", "upstream")
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}
