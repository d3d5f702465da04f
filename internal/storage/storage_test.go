package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ezexpenses/internal/config"
	"github.com/MrJamesThe3rd/ezexpenses/internal/kv"
	"github.com/MrJamesThe3rd/ezexpenses/internal/storage"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageMemory

	s, closeFn, err := storage.Open(cfg)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &kv.MemoryStore{}, s)
}

func TestOpen_SQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()

	cfg := &config.Config{}
	cfg.Storage.Driver = config.StorageSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "records.db")

	s, closeFn, err := storage.Open(cfg)
	require.NoError(t, err)

	_, err = s.Put(ctx, "k", []byte(`["a"]`), 0)
	require.NoError(t, err)
	closeFn()

	s, closeFn, err = storage.Open(cfg)
	require.NoError(t, err)
	defer closeFn()

	slot, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, string(slot.Value))
	assert.Equal(t, int64(1), slot.Version)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Driver = "redis"

	_, _, err := storage.Open(cfg)
	assert.Error(t, err)
}
