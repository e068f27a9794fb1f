// Package index implements the persisted catalog of cache entries.
package index

import (
	"cmp"
	"container/list"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/assetcache/internal/adapters/diskstore" //nolint:depguard // Shares the atomic write
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// FileName is the name of the index file inside the cache root.
	FileName = "cache-index.json"
	// Version is the on-disk format version this package reads and writes.
	Version = 1
)

// WriteFunc atomically replaces target, a file inside dir, with data.
type WriteFunc func(dir, target string, data []byte) error

type document struct {
	Version   int                                       `json:"version"`
	CreatedAt time.Time                                 `json:"createdAt"`
	Entries   map[domain.Fingerprint]domain.CacheEntry `json:"entries"`
}

// File implements ports.Index on a single JSON document.
type File struct {
	dir   string
	path  string
	log   ports.Logger
	clock clockwork.Clock
	write WriteFunc

	mu         sync.Mutex
	createdAt  time.Time
	entries    map[domain.Fingerprint]*list.Element
	lru        *list.List
	totalBytes int64
	nextSeq    uint64
	dirty      bool
}

// Option configures a File.
type Option func(*File)

// WithClock sets the clock used for the document creation time.
func WithClock(c clockwork.Clock) Option {
	return func(f *File) { f.clock = c }
}

// WithWriteFunc replaces the atomic writer used to persist the document.
func WithWriteFunc(w WriteFunc) Option {
	return func(f *File) { f.write = w }
}

// New creates an empty index stored at <dir>/cache-index.json. Call Load to read
// the existing document.
func New(dir string, log ports.Logger, opts ...Option) *File {
	dir = filepath.Clean(dir)
	f := &File{
		dir:     dir,
		path:    filepath.Join(dir, FileName),
		log:     log,
		clock:   clockwork.NewRealClock(),
		write:   diskstore.WriteFileAtomic,
		entries: make(map[domain.Fingerprint]*list.Element),
		lru:     list.New(),
		nextSeq: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.createdAt = f.clock.Now().UTC()
	return f
}

// Path returns the location of the index document.
func (f *File) Path() string {
	return f.path
}

// Load replaces the in-memory state with the persisted document, keeping only records
// accepted by validate. Dropped records leave the index dirty so the next Flush rewrites it.
func (f *File) Load(ctx context.Context, validate func(domain.CacheEntry) error) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resetLocked()

	//nolint:gosec // Path is derived from the configured cache root
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		f.log.Warn("index unreadable, starting empty", "path", f.path, "error", err)
		return 0, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		f.log.Warn("index corrupt, starting empty", "path", f.path, "error", err)
		return 0, nil
	}
	if doc.Version != Version {
		f.log.Warn("index version unsupported, starting empty", "path", f.path, "version", doc.Version)
		return 0, nil
	}
	if !doc.CreatedAt.IsZero() {
		f.createdAt = doc.CreatedAt
	}

	loaded := make([]domain.CacheEntry, 0, len(doc.Entries))
	dropped := 0
	for key, entry := range doc.Entries {
		if err := ctx.Err(); err != nil {
			f.resetLocked()
			return 0, err
		}
		if key != entry.Key || !key.Valid() {
			dropped++
			continue
		}
		if validate != nil {
			if err := validate(entry); err != nil {
				f.log.Debug("dropping index record", "key", key.Short(), "reason", err)
				dropped++
				continue
			}
		}
		loaded = append(loaded, entry)
	}

	for _, entry := range loaded {
		if entry.Sequence >= f.nextSeq {
			f.nextSeq = entry.Sequence + 1
		}
	}
	// Records from older writers may lack sequence numbers.
	slices.SortFunc(loaded, func(a, b domain.CacheEntry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	for i := range loaded {
		if loaded[i].Sequence == 0 {
			loaded[i].Sequence = f.nextSeq
			f.nextSeq++
			f.dirty = true
		}
	}
	for _, entry := range loaded {
		f.insertLocked(entry)
	}
	if dropped > 0 {
		f.dirty = true
	}
	return dropped, nil
}

// Get returns a copy of the record for key.
func (f *File) Get(key domain.Fingerprint) (domain.CacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	el, ok := f.entries[key]
	if !ok {
		return domain.CacheEntry{}, false
	}
	return *el.Value.(*domain.CacheEntry), true
}

// Put inserts or replaces the record for entry.Key. The record receives a new sequence
// number, so a replaced entry counts as newly inserted.
func (f *File) Put(entry domain.CacheEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry.Sequence = f.nextSeq
	if err := f.persistLocked(func(m map[domain.Fingerprint]domain.CacheEntry) {
		m[entry.Key] = entry
	}); err != nil {
		return err
	}

	f.removeLocked(entry.Key)
	f.insertLocked(entry)
	f.nextSeq++
	return nil
}

// Delete removes the records for keys. Nothing is persisted when no key is known.
func (f *File) Delete(keys ...domain.Fingerprint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	known := make([]domain.Fingerprint, 0, len(keys))
	for _, key := range keys {
		if _, ok := f.entries[key]; ok {
			known = append(known, key)
		}
	}
	if len(known) == 0 {
		return nil
	}

	if err := f.persistLocked(func(m map[domain.Fingerprint]domain.CacheEntry) {
		for _, key := range known {
			delete(m, key)
		}
	}); err != nil {
		return err
	}

	for _, key := range known {
		f.removeLocked(key)
	}
	return nil
}

// Reset removes every record.
func (f *File) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.persistLocked(func(m map[domain.Fingerprint]domain.CacheEntry) {
		clear(m)
	}); err != nil {
		return err
	}

	f.entries = make(map[domain.Fingerprint]*list.Element)
	f.lru.Init()
	f.totalBytes = 0
	return nil
}

// Touch records an access at the given time. The change is persisted by the next
// mutation or Flush.
func (f *File) Touch(key domain.Fingerprint, at time.Time) (domain.CacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	el, ok := f.entries[key]
	if !ok {
		return domain.CacheEntry{}, false
	}
	entry := *el.Value.(*domain.CacheEntry)
	entry.LastAccessedAt = at
	entry.AccessCount++

	f.lru.Remove(el)
	f.entries[key] = f.insertSorted(&entry)
	f.dirty = true
	return entry, true
}

// Flush persists pending access updates.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty {
		return nil
	}
	return f.persistLocked(nil)
}

// Entries returns a snapshot of all records in insertion order.
func (f *File) Entries() []domain.CacheEntry {
	out := f.LRU()
	slices.SortFunc(out, func(a, b domain.CacheEntry) int {
		return compareSeq(a.Sequence, b.Sequence)
	})
	return out
}

// LRU returns a snapshot of all records, least recently used first.
func (f *File) LRU() []domain.CacheEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.CacheEntry, 0, f.lru.Len())
	for el := f.lru.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value.(*domain.CacheEntry))
	}
	return out
}

// Len returns the number of records.
func (f *File) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// TotalBytes returns the sum of SizeBytes over all records.
func (f *File) TotalBytes() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalBytes
}

// persistLocked writes the current state with mutate applied. The in-memory state is
// not modified.
func (f *File) persistLocked(mutate func(map[domain.Fingerprint]domain.CacheEntry)) error {
	doc := document{
		Version:   Version,
		CreatedAt: f.createdAt,
		Entries:   make(map[domain.Fingerprint]domain.CacheEntry, len(f.entries)+1),
	}
	for key, el := range f.entries {
		doc.Entries[key] = *el.Value.(*domain.CacheEntry)
	}
	if mutate != nil {
		mutate(doc.Entries)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return persistError(err, "failed to marshal index")
	}
	if err := os.MkdirAll(f.dir, 0o750); err != nil {
		return persistError(err, "failed to create index directory")
	}
	if err := f.write(f.dir, f.path, data); err != nil {
		return persistError(err, "failed to write index")
	}
	f.dirty = false
	return nil
}

func (f *File) resetLocked() {
	f.entries = make(map[domain.Fingerprint]*list.Element)
	f.lru.Init()
	f.totalBytes = 0
	f.nextSeq = 1
	f.dirty = false
}

func (f *File) insertLocked(entry domain.CacheEntry) {
	f.entries[entry.Key] = f.insertSorted(&entry)
	f.totalBytes += entry.SizeBytes
}

func (f *File) removeLocked(key domain.Fingerprint) {
	el, ok := f.entries[key]
	if !ok {
		return
	}
	e := f.lru.Remove(el).(*domain.CacheEntry)
	delete(f.entries, key)
	f.totalBytes -= e.SizeBytes
}

// insertSorted places e by (LastAccessedAt, Sequence), scanning from the most recent end.
func (f *File) insertSorted(e *domain.CacheEntry) *list.Element {
	for el := f.lru.Back(); el != nil; el = el.Prev() {
		if !lessRecent(e, el.Value.(*domain.CacheEntry)) {
			return f.lru.InsertAfter(e, el)
		}
	}
	return f.lru.PushFront(e)
}

func lessRecent(a, b *domain.CacheEntry) bool {
	if !a.LastAccessedAt.Equal(b.LastAccessedAt) {
		return a.LastAccessedAt.Before(b.LastAccessedAt)
	}
	return a.Sequence < b.Sequence
}

func compareSeq(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func persistError(err error, msg string) error {
	return errors.Join(domain.ErrIndexPersist, zerr.Wrap(err, msg))
}
