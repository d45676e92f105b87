package noop

import (
	"context"
	"testing"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

func TestNewNoOpCache(t *testing.T) {
	var _ interfaces.StoreProvider = NewNoOpCache()
}

func TestNoOpCache_GetAfterPut(t *testing.T) {
	ctx := context.Background()
	cache := NewNoOpCache()

	store, err := cache.Open(ctx, "app-v1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	testCases := []string{
		"GET https://app.example.com/",
		"",
		"key-with-special-characters-!@#$%^&*()",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			if err := store.Put(ctx, key, &models.CacheEntry{Status: 200}); err != nil {
				t.Errorf("Put(%q) error = %v, want nil", key, err)
			}

			entry, found, err := store.Get(ctx, key)
			if entry != nil {
				t.Errorf("Get(%q) entry = %v, want nil", key, entry)
			}
			if found {
				t.Errorf("Get(%q) found = true, want false", key)
			}
			if err != nil {
				t.Errorf("Get(%q) error = %v, want nil", key, err)
			}
		})
	}
}

func TestNoOpCache_NamesAndDelete(t *testing.T) {
	ctx := context.Background()
	cache := NewNoOpCache()
	_, _ = cache.Open(ctx, "app-v1")

	names, err := cache.Names(ctx)
	if err != nil || len(names) != 0 {
		t.Errorf("Names() = %v, %v; want empty, nil", names, err)
	}

	deleted, err := cache.Delete(ctx, "app-v1")
	if err != nil || deleted {
		t.Errorf("Delete() = %v, %v; want false, nil", deleted, err)
	}
}
