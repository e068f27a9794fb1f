// Package diskstore implements the durable tier: one file per fingerprint in a flat
// directory, written atomically.
package diskstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// FileExt is the suffix of every entry file.
	FileExt = ".cache"
	// TempPrefix marks in-flight writes. Files with this prefix are never entries.
	TempPrefix = ".tmp-"

	dirPerm  = 0o750
	filePerm = 0o600
)

// Store implements ports.BlobStore on the local filesystem.
type Store struct {
	root string
}

// New creates a Store rooted at root, creating the directory if needed.
func New(root string) (*Store, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "root", root)
	}
	return &Store{root: root}, nil
}

// Root returns the directory holding the entry files.
func (s *Store) Root() string {
	return s.root
}

// FileName returns the base name of the entry file for key.
func FileName(key domain.Fingerprint) string {
	return key.String() + FileExt
}

func (s *Store) path(key domain.Fingerprint) (string, error) {
	if !key.Valid() {
		return "", errors.Join(domain.ErrInvalidFingerprint, zerr.With(zerr.New("invalid fingerprint"), "key", key.String()))
	}
	return filepath.Join(s.root, FileName(key)), nil
}

// Write atomically replaces the entry file for key.
func (s *Store) Write(ctx context.Context, key domain.Fingerprint, data []byte) (string, error) {
	filePath, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := WriteFileAtomic(s.root, filePath, data); err != nil {
		return "", zerr.With(err, "key", key.Short())
	}
	return FileName(key), nil
}

// WriteFileAtomic writes data to a temp file in dir, syncs it and renames it over target.
func WriteFileAtomic(dir, target string, data []byte) error {
	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file")
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, filePerm)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to write temp file")
	}

	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return zerr.Wrap(err, "failed to rename temp file")
	}
	return nil
}

// Read returns the contents of the entry file for key.
func (s *Store) Read(ctx context.Context, key domain.Fingerprint) ([]byte, error) {
	filePath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	//nolint:gosec // Path is derived from a validated fingerprint
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, notFound(err, key, "failed to read entry file")
	}
	return data, nil
}

// Stat returns the size of the entry file for key.
func (s *Store) Stat(key domain.Fingerprint) (int64, error) {
	filePath, err := s.path(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, notFound(err, key, "failed to stat entry file")
	}
	return info.Size(), nil
}

// Remove deletes the entry file for key. A missing file is not an error.
func (s *Store) Remove(key domain.Fingerprint) error {
	filePath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove entry file"), "key", key.Short())
	}
	return nil
}

// List returns the fingerprints of all entry files in the root.
func (s *Store) List() ([]domain.Fingerprint, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list cache directory")
	}
	keys := make([]domain.Fingerprint, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		name, ok := strings.CutSuffix(de.Name(), FileExt)
		if !ok {
			continue
		}
		if key := domain.Fingerprint(name); key.Valid() {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Clear deletes every entry file. Files that are not entries are left alone.
func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.List()
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CleanupTemp removes files left by interrupted writes.
func (s *Store) CleanupTemp() error {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return zerr.Wrap(err, "failed to list cache directory")
	}
	var errs []error
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), TempPrefix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, de.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, zerr.Wrap(err, "failed to remove temp file"))
		}
	}
	return errors.Join(errs...)
}

func notFound(err error, key domain.Fingerprint, msg string) error {
	wrapped := zerr.With(zerr.Wrap(err, msg), "key", key.Short())
	if errors.Is(err, fs.ErrNotExist) {
		return errors.Join(domain.ErrEntryMissing, wrapped)
	}
	return wrapped
}
