package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/interfaces/mock"
	"go-sw-cache/internal/models"
)

func newLayers(t *testing.T) (*gomock.Controller, *mock.MockStoreProvider, *mock.MockStoreProvider) {
	ctrl := gomock.NewController(t)
	return ctrl, mock.NewMockStoreProvider(ctrl), mock.NewMockStoreProvider(ctrl)
}

func TestNewMultiCache(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())

	assert.NotNil(t, mc)
	assert.Equal(t, 2, mc.GetCacheCount())
	assert.Equal(t, cache1, mc.caches[0])
	assert.Equal(t, cache2, mc.caches[1])
}

func TestMultiCache_Open_NoLayers(t *testing.T) {
	mc := NewMultiCache(nil, zap.NewNop())

	store, err := mc.Open(context.Background(), "app-v1")
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestMultiCache_Open_LayerError(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Open(gomock.Any(), "app-v1").Return(mock.NewMockStore(ctrl), nil)
	cache2.EXPECT().Open(gomock.Any(), "app-v1").Return(nil, errors.New("disk full"))

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	store, err := mc.Open(context.Background(), "app-v1")
	assert.Error(t, err)
	assert.Nil(t, store)
}

func openLayered(t *testing.T) (interfaces.Store, *mock.MockStore, *mock.MockStore) {
	ctrl, cache1, cache2 := newLayers(t)
	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)
	cache1.EXPECT().Open(gomock.Any(), "app-v1").Return(store1, nil)
	cache2.EXPECT().Open(gomock.Any(), "app-v1").Return(store2, nil)

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	store, err := mc.Open(context.Background(), "app-v1")
	require.NoError(t, err)
	return store, store1, store2
}

func TestMultiCache_Get_FirstLayerHit(t *testing.T) {
	store, store1, _ := openLayered(t)

	entry := &models.CacheEntry{Status: 200, Body: []byte("v")}
	store1.EXPECT().Get(gomock.Any(), "k").Return(entry, true, nil)
	// the second layer must not be consulted

	got, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry, got)
}

func TestMultiCache_Get_SecondLayerHitBackfills(t *testing.T) {
	store, store1, store2 := openLayered(t)

	entry := &models.CacheEntry{Status: 200, Body: []byte("v")}
	gomock.InOrder(
		store1.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil),
		store2.EXPECT().Get(gomock.Any(), "k").Return(entry, true, nil),
		store1.EXPECT().Put(gomock.Any(), "k", entry).Return(nil),
	)

	got, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry, got)
}

func TestMultiCache_Get_LayerErrorFallsThrough(t *testing.T) {
	store, store1, store2 := openLayered(t)

	entry := &models.CacheEntry{Status: 200}
	store1.EXPECT().Get(gomock.Any(), "k").Return(nil, false, errors.New("corrupt"))
	store2.EXPECT().Get(gomock.Any(), "k").Return(entry, true, nil)
	store1.EXPECT().Put(gomock.Any(), "k", entry).Return(errors.New("still corrupt"))

	got, found, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry, got)
}

func TestMultiCache_Get_AllMiss(t *testing.T) {
	store, store1, store2 := openLayered(t)

	store1.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil)
	store2.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil)

	got, found, err := store.Get(context.Background(), "k")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestMultiCache_Get_MissWithError(t *testing.T) {
	store, store1, store2 := openLayered(t)

	store1.EXPECT().Get(gomock.Any(), "k").Return(nil, false, nil)
	store2.EXPECT().Get(gomock.Any(), "k").Return(nil, false, errors.New("timeout"))

	_, found, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestMultiCache_Put_AllLayers(t *testing.T) {
	store, store1, store2 := openLayered(t)

	entry := &models.CacheEntry{Status: 200}
	store1.EXPECT().Put(gomock.Any(), "k", entry).Return(nil)
	store2.EXPECT().Put(gomock.Any(), "k", entry).Return(nil)

	assert.NoError(t, store.Put(context.Background(), "k", entry))
}

func TestMultiCache_Put_FasterLayerErrorIsIgnored(t *testing.T) {
	store, store1, store2 := openLayered(t)

	entry := &models.CacheEntry{Status: 200}
	store1.EXPECT().Put(gomock.Any(), "k", entry).Return(errors.New("entry is bigger than max shard size"))
	store2.EXPECT().Put(gomock.Any(), "k", entry).Return(nil)

	assert.NoError(t, store.Put(context.Background(), "k", entry))
}

func TestMultiCache_Put_LastLayerErrorIsReturned(t *testing.T) {
	store, store1, store2 := openLayered(t)

	entry := &models.CacheEntry{Status: 200}
	store1.EXPECT().Put(gomock.Any(), "k", entry).Return(nil)
	store2.EXPECT().Put(gomock.Any(), "k", entry).Return(errors.New("disk full"))

	assert.ErrorContains(t, store.Put(context.Background(), "k", entry), "disk full")
}

func TestMultiCache_Names_Union(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Names(gomock.Any()).Return([]string{"app-v2"}, nil)
	cache2.EXPECT().Names(gomock.Any()).Return([]string{"app-v1", "app-v2"}, nil)

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	names, err := mc.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app-v1", "app-v2"}, names)
}

func TestMultiCache_Names_PartialError(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Names(gomock.Any()).Return(nil, errors.New("down"))
	cache2.EXPECT().Names(gomock.Any()).Return([]string{"app-v1"}, nil)

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	names, err := mc.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"app-v1"}, names)
}

func TestMultiCache_Names_AllError(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Names(gomock.Any()).Return(nil, errors.New("down"))
	cache2.EXPECT().Names(gomock.Any()).Return(nil, errors.New("down"))

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	_, err := mc.Names(context.Background())
	assert.Error(t, err)
}

func TestMultiCache_Delete(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Delete(gomock.Any(), "app-v1").Return(false, nil)
	cache2.EXPECT().Delete(gomock.Any(), "app-v1").Return(true, nil)

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	deleted, err := mc.Delete(context.Background(), "app-v1")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestMultiCache_Delete_Error(t *testing.T) {
	ctrl, cache1, cache2 := newLayers(t)
	defer ctrl.Finish()

	cache1.EXPECT().Delete(gomock.Any(), "app-v1").Return(true, nil)
	cache2.EXPECT().Delete(gomock.Any(), "app-v1").Return(false, errors.New("locked"))

	mc := NewMultiCache([]interfaces.StoreProvider{cache1, cache2}, zap.NewNop())
	deleted, err := mc.Delete(context.Background(), "app-v1")
	assert.Error(t, err)
	assert.True(t, deleted)
}
