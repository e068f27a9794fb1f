package diskstore_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/assetcache/internal/adapters/diskstore"
	"go.trai.ch/assetcache/internal/core/domain"
)

func key(c byte) domain.Fingerprint {
	return domain.Fingerprint(strings.Repeat(string(c), domain.FingerprintLength))
}

func TestStore_WriteReadStat(t *testing.T) {
	root := t.TempDir()
	s, err := diskstore.New(root)
	require.NoError(t, err)
	ctx := context.Background()

	name, err := s.Write(ctx, key('a'), []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, diskstore.FileName(key('a')), name)
	assert.FileExists(t, filepath.Join(root, name))

	data, err := s.Read(ctx, key('a'))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	size, err := s.Stat(key('a'))
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), size)
}

func TestStore_WriteReplaces(t *testing.T) {
	s, err := diskstore.New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Write(ctx, key('b'), []byte("first"))
	require.NoError(t, err)
	_, err = s.Write(ctx, key('b'), []byte("second, longer"))
	require.NoError(t, err)

	data, err := s.Read(ctx, key('b'))
	require.NoError(t, err)
	assert.Equal(t, "second, longer", string(data))

	keys, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.Fingerprint{key('b')}, keys)
}

func TestStore_Missing(t *testing.T) {
	s, err := diskstore.New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), key('c'))
	assert.ErrorIs(t, err, domain.ErrEntryMissing)

	_, err = s.Stat(key('c'))
	assert.ErrorIs(t, err, domain.ErrEntryMissing)

	assert.NoError(t, s.Remove(key('c')))
}

func TestStore_RejectsInvalidFingerprint(t *testing.T) {
	s, err := diskstore.New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Write(context.Background(), domain.Fingerprint("../escape"), []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidFingerprint)

	_, err = s.Read(context.Background(), domain.Fingerprint("ABC"))
	assert.ErrorIs(t, err, domain.ErrInvalidFingerprint)
}

func TestStore_Remove(t *testing.T) {
	root := t.TempDir()
	s, err := diskstore.New(root)
	require.NoError(t, err)

	_, err = s.Write(context.Background(), key('d'), []byte("x"))
	require.NoError(t, err)
	require.NoError(t, s.Remove(key('d')))
	assert.NoFileExists(t, filepath.Join(root, diskstore.FileName(key('d'))))
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	s, err := diskstore.New(root)
	require.NoError(t, err)

	_, err = s.Write(context.Background(), key('e'), []byte("x"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "cache-index.json"), []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notakey.cache"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, strings.Repeat("f", 64)+".cache"), 0o750))

	keys, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []domain.Fingerprint{key('e')}, keys)
}

func TestStore_ClearKeepsIndexFile(t *testing.T) {
	root := t.TempDir()
	s, err := diskstore.New(root)
	require.NoError(t, err)
	ctx := context.Background()

	for _, c := range []byte("012") {
		_, err = s.Write(ctx, key(c), []byte{c})
		require.NoError(t, err)
	}
	indexPath := filepath.Join(root, "cache-index.json")
	require.NoError(t, os.WriteFile(indexPath, []byte("{}"), 0o600))

	require.NoError(t, s.Clear(ctx))

	keys, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.FileExists(t, indexPath)
}

func TestStore_CleanupTemp(t *testing.T) {
	root := t.TempDir()
	s, err := diskstore.New(root)
	require.NoError(t, err)

	stale := filepath.Join(root, diskstore.TempPrefix+"123")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o600))
	_, err = s.Write(context.Background(), key('9'), []byte("x"))
	require.NoError(t, err)

	require.NoError(t, s.CleanupTemp())
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(root, diskstore.FileName(key('9'))))
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := diskstore.New(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Write(ctx, key('a'), []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
