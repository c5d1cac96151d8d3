package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/cache"
	"study-tracker/internal/domain"
	"study-tracker/internal/notify"
)

func TestCreateRepository_SQLite(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = filepath.Join(t.TempDir(), "nested", "study")
	cfg.Database.Filename = "test.db"

	store, err := CreateRepository(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.CreateSubject(context.Background(), "alice", domain.NewSubject("Math", ""))
	require.NoError(t, err)

	_, err = os.Stat(cfg.GetDatabasePath())
	assert.NoError(t, err, "database file is created")
}

func TestCreateRepository_UnknownBackend(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Backend = "oracle"

	_, err := CreateRepository(context.Background(), cfg, nil)

	assert.ErrorContains(t, err, "unknown database backend")
}

func TestCreateTestRepository(t *testing.T) {
	store, err := CreateTestRepository()
	require.NoError(t, err)
	defer store.Close()

	subjects, err := store.ListSubjects(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestCreateReportCache(t *testing.T) {
	tests := []struct {
		backend string
		check   func(t *testing.T, c cache.ReportCache)
		wantErr bool
	}{
		{backend: CacheNone, check: func(t *testing.T, c cache.ReportCache) { assert.IsType(t, cache.Nop{}, c) }},
		{backend: CacheMemory, check: func(t *testing.T, c cache.ReportCache) { assert.IsType(t, &cache.Memory{}, c) }},
		{backend: "memcached", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Cache.Backend = tt.backend

			c, err := CreateReportCache(context.Background(), cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer c.Close()
			tt.check(t, c)
		})
	}
}

func TestCreateNotifier(t *testing.T) {
	cfg := NewConfig()
	cfg.Notify.Desktop = false

	n := CreateNotifier(cfg, nil)

	require.NoError(t, n.Notify("Study Tracker", "Session saved"))
	n.Wait()
	var _ notify.Notifier = n
}
