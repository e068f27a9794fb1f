package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/adapters/logger"
	"go.trai.ch/assetcache/internal/adapters/metrics"
	"go.trai.ch/assetcache/internal/app"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const configPath = "assetcache.yaml"

func newApp(t *testing.T) (*app.App, *mocks.MockConfigLoader, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	root := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.RootDirectory = root
	loader.EXPECT().Load(configPath).Return(cfg, nil).AnyTimes()

	a := app.New(loader, logger.NewNop(), metrics.NewPrometheus()).
		WithClock(clockwork.NewFakeClock())
	return a, loader, root
}

func request(id string) domain.Value {
	return domain.FromAny(map[string]any{"id": id, "seed": 7})
}

func TestApp_PutGetAcrossInvocations(t *testing.T) {
	a, _, root := newApp(t)
	ctx := context.Background()
	artifact := domain.FromAny(map[string]any{"mesh": "base64data", "lod": 2})

	key, err := a.Put(ctx, configPath, "model", request("a"), artifact)
	require.NoError(t, err)
	assert.True(t, key.Valid())
	assert.FileExists(t, filepath.Join(root, key.String()+".cache"))

	got, found, err := a.Get(ctx, configPath, "model", request("a"))
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, artifact.Equal(got))

	_, found, err = a.Get(ctx, configPath, "model", request("b"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestApp_ListStatsAndRemove(t *testing.T) {
	a, _, _ := newApp(t)
	ctx := context.Background()

	_, err := a.Put(ctx, configPath, "model", request("a"), domain.String("a"))
	require.NoError(t, err)
	_, err = a.Put(ctx, configPath, "model", request("b"), domain.String("b"))
	require.NoError(t, err)

	entries, err := a.List(ctx, configPath)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "model", entries[0].AssetKind)

	stats, err := a.Stats(ctx, configPath)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.EntryCount)
	// Each invocation starts with an empty memory tier.
	assert.Zero(t, stats.MemoryEntries)

	require.NoError(t, a.Remove(ctx, configPath, "model", request("a")))
	entries, err = a.List(ctx, configPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, a.Clear(ctx, configPath))
	entries, err = a.List(ctx, configPath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApp_SweepAndPreload(t *testing.T) {
	a, _, _ := newApp(t)
	ctx := context.Background()

	_, err := a.Put(ctx, configPath, "model", request("a"), domain.String("a"))
	require.NoError(t, err)

	require.NoError(t, a.Sweep(ctx, configPath))

	loaded, err := a.Preload(ctx, configPath, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
}

func TestApp_WriteMetrics(t *testing.T) {
	a, _, _ := newApp(t)
	ctx := context.Background()

	_, err := a.Put(ctx, configPath, "model", request("a"), domain.String("a"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.WriteMetrics(ctx, configPath, &buf))
	assert.Contains(t, buf.String(), "assetcache_puts_total 1")
	assert.Contains(t, buf.String(), "assetcache_entries 1")
}

func TestApp_WriteMetricsWithoutExporter(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	a := app.New(loader, logger.NewNop(), nil)

	var buf bytes.Buffer
	require.NoError(t, a.WriteMetrics(context.Background(), configPath, &buf))
	assert.Empty(t, buf.String())
}

func TestApp_ConfigError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(configPath).Return(domain.Config{}, domain.ErrInvalidConfig)

	a := app.New(loader, logger.NewNop(), nil)

	_, err := a.Stats(context.Background(), configPath)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestApp_OpenFailsOnUnusableRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	cfg := domain.DefaultConfig()
	cfg.RootDirectory = blocker
	loader.EXPECT().Load(configPath).Return(cfg, nil)

	a := app.New(loader, logger.NewNop(), nil)

	err := a.Clear(context.Background(), configPath)
	require.Error(t, err)
}

func TestApp_OpenReturnsUsableHandle(t *testing.T) {
	a, _, _ := newApp(t)
	ctx := context.Background()

	h, err := a.Open(ctx, configPath)
	require.NoError(t, err)

	require.NoError(t, h.Put(ctx, "model", request("a"), domain.String("a")))
	assert.True(t, h.Contains(ctx, "model", request("a")))

	require.NoError(t, h.Close())
	err = h.Put(ctx, "model", request("b"), domain.String("b"))
	assert.True(t, errors.Is(err, domain.ErrClosed))
}
