package config_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/charforge/pkg/cli/config"
)

func TestStorage_Configure(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		cfg := config.NewStorageForTest(config.BackendMemory, "")
		store, err := cfg.Configure(t.Context())
		gt.NoError(t, err).Required()
		defer store.Close()

		gt.NoError(t, store.SetItem(t.Context(), "k", "v")).Required()
		v, ok, err := store.GetItem(t.Context(), "k")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		gt.Value(t, v).Equal("v")
	})

	t.Run("sqlite backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "charforge.db")
		cfg := config.NewStorageForTest(config.BackendSQLite, path)
		store, err := cfg.Configure(t.Context())
		gt.NoError(t, err).Required()
		defer store.Close()

		_, ok, err := store.GetItem(t.Context(), "missing")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()
	})

	t.Run("sqlite backend requires a path", func(t *testing.T) {
		cfg := config.NewStorageForTest(config.BackendSQLite, "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("firestore backend requires a project", func(t *testing.T) {
		cfg := config.NewStorageForTest(config.BackendFirestore, "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("gcs backend requires a bucket", func(t *testing.T) {
		cfg := config.NewStorageForTest(config.BackendGCS, "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.NewStorageForTest("redis", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
