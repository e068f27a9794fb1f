package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/cmd/assetcache/commands"
	"go.trai.ch/assetcache/internal/build"
	"go.trai.ch/assetcache/internal/core/domain"
)

type call struct {
	configPath string
	kind       string
	request    domain.Value
	artifact   domain.Value
	topN       int
}

type mockApp struct {
	calls    map[string]call
	entries  []domain.CacheEntry
	artifact domain.Value
	found    bool
	err      error
}

func newMockApp() *mockApp {
	return &mockApp{calls: make(map[string]call)}
}

func (m *mockApp) Stats(_ context.Context, configPath string) (domain.Statistics, error) {
	m.calls["stats"] = call{configPath: configPath}
	return domain.Statistics{EntryCount: len(m.entries), DiskBytes: 42}, m.err
}

func (m *mockApp) List(_ context.Context, configPath string) ([]domain.CacheEntry, error) {
	m.calls["ls"] = call{configPath: configPath}
	return m.entries, m.err
}

func (m *mockApp) Get(_ context.Context, configPath, kind string, req domain.Value) (domain.Value, bool, error) {
	m.calls["get"] = call{configPath: configPath, kind: kind, request: req}
	return m.artifact, m.found, m.err
}

func (m *mockApp) Put(_ context.Context, configPath, kind string, req, artifact domain.Value) (domain.Fingerprint, error) {
	m.calls["put"] = call{configPath: configPath, kind: kind, request: req, artifact: artifact}
	return domain.Fingerprint("ab12cd34"), m.err
}

func (m *mockApp) Remove(_ context.Context, configPath, kind string, req domain.Value) error {
	m.calls["rm"] = call{configPath: configPath, kind: kind, request: req}
	return m.err
}

func (m *mockApp) Clear(_ context.Context, configPath string) error {
	m.calls["clear"] = call{configPath: configPath}
	return m.err
}

func (m *mockApp) Sweep(_ context.Context, configPath string) error {
	m.calls["sweep"] = call{configPath: configPath}
	return m.err
}

func (m *mockApp) Preload(_ context.Context, configPath string, topN int) (int, error) {
	m.calls["preload"] = call{configPath: configPath, topN: topN}
	return topN - 1, m.err
}

func (m *mockApp) WriteMetrics(_ context.Context, configPath string, w io.Writer) error {
	m.calls["metrics"] = call{configPath: configPath}
	_, _ = io.WriteString(w, "assetcache_entries 0\n")
	return m.err
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_ConfigFlag(t *testing.T) {
	m := newMockApp()

	_, err := execute(t, m, "clear")
	require.NoError(t, err)
	assert.Equal(t, "assetcache.yaml", m.calls["clear"].configPath)

	_, err = execute(t, m, "sweep", "--config", "other.yaml")
	require.NoError(t, err)
	assert.Equal(t, "other.yaml", m.calls["sweep"].configPath)

	_, err = execute(t, m, "-c", "short.yaml", "stats")
	require.NoError(t, err)
	assert.Equal(t, "short.yaml", m.calls["stats"].configPath)
}

func TestCommands_Stats(t *testing.T) {
	m := newMockApp()
	out, err := execute(t, m, "stats")
	require.NoError(t, err)

	var stats domain.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, int64(42), stats.DiskBytes)
}

func TestCommands_List(t *testing.T) {
	m := newMockApp()
	m.entries = []domain.CacheEntry{{
		Key:            domain.Fingerprint("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		AssetKind:      "sprite",
		SizeBytes:      120,
		AccessCount:    3,
		LastAccessedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}

	out, err := execute(t, m, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, m.entries[0].Key.Short())
	assert.Contains(t, out, "sprite")
	assert.Contains(t, out, "2024-01-02T03:04:05Z")
}

func TestCommands_Get(t *testing.T) {
	t.Run("prints artifact", func(t *testing.T) {
		m := newMockApp()
		m.artifact = domain.FromAny(map[string]any{"b": 1, "a": "x"})
		m.found = true

		out, err := execute(t, m, "get", "--kind", "sprite", "--request", `{"id":"hero"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":"x","b":1}`, out)

		got := m.calls["get"]
		assert.Equal(t, "sprite", got.kind)
		assert.True(t, domain.FromAny(map[string]any{"id": "hero"}).Equal(got.request))
	})

	t.Run("miss is reported as missing entry", func(t *testing.T) {
		m := newMockApp()
		_, err := execute(t, m, "get", "--kind", "sprite")
		require.ErrorIs(t, err, domain.ErrEntryMissing)
		assert.True(t, domain.Map(nil).Equal(m.calls["get"].request))
	})

	t.Run("kind is required", func(t *testing.T) {
		m := newMockApp()
		_, err := execute(t, m, "get")
		require.Error(t, err)
		assert.NotContains(t, m.calls, "get")
	})

	t.Run("rejects malformed request", func(t *testing.T) {
		m := newMockApp()
		_, err := execute(t, m, "get", "--kind", "sprite", "--request", "{not json")
		require.Error(t, err)
		assert.NotContains(t, m.calls, "get")
	})
}

func TestCommands_Put(t *testing.T) {
	t.Run("inline artifact", func(t *testing.T) {
		m := newMockApp()
		out, err := execute(t, m, "put", "-k", "sprite", "-r", `{"id":"hero"}`, "-a", `"pixels"`)
		require.NoError(t, err)
		assert.Equal(t, "ab12cd34\n", out)
		assert.True(t, domain.String("pixels").Equal(m.calls["put"].artifact))
	})

	t.Run("artifact from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "artifact.json")
		require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o600))

		m := newMockApp()
		_, err := execute(t, m, "put", "--kind", "sprite", "--artifact", "@"+path)
		require.NoError(t, err)
		assert.Equal(t, 3, m.calls["put"].artifact.Len())
	})

	t.Run("artifact is required", func(t *testing.T) {
		m := newMockApp()
		_, err := execute(t, m, "put", "--kind", "sprite")
		require.Error(t, err)
	})

	t.Run("propagates failure", func(t *testing.T) {
		m := newMockApp()
		m.err = errors.New("disk full")
		_, err := execute(t, m, "put", "--kind", "sprite", "--artifact", "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestCommands_Remove(t *testing.T) {
	m := newMockApp()
	_, err := execute(t, m, "rm", "--kind", "mesh", "--request", `{"lod":1}`)
	require.NoError(t, err)
	assert.Equal(t, "mesh", m.calls["rm"].kind)
}

func TestCommands_Preload(t *testing.T) {
	m := newMockApp()
	out, err := execute(t, m, "preload", "--top", "5")
	require.NoError(t, err)
	assert.Equal(t, 5, m.calls["preload"].topN)
	assert.Contains(t, out, "preloaded 4 entries")
}

func TestCommands_Metrics(t *testing.T) {
	m := newMockApp()
	out, err := execute(t, m, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "assetcache_entries 0")
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, newMockApp(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
