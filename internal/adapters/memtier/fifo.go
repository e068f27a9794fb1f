// Package memtier implements the in-memory tier: a byte-bounded FIFO of decoded artifacts.
package memtier

import (
	"container/list"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/assetcache/internal/core/domain"
)

// FIFO implements ports.MemoryTier. Eviction order is insertion order; reads do not
// promote an entry.
type FIFO struct {
	maxBytes int64
	clock    clockwork.Clock

	mu       sync.Mutex
	curBytes int64
	items    map[domain.Fingerprint]*list.Element
	order    *list.List
}

// New creates a FIFO holding at most maxBytes of artifacts.
func New(maxBytes int64, clock clockwork.Clock) *FIFO {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FIFO{
		maxBytes: maxBytes,
		clock:    clock,
		items:    make(map[domain.Fingerprint]*list.Element),
		order:    list.New(),
	}
}

// Get returns the artifact for key and refreshes its access time.
func (f *FIFO) Get(key domain.Fingerprint) (domain.Value, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	el, ok := f.items[key]
	if !ok {
		return domain.Value{}, false
	}
	e := el.Value.(*domain.MemoryEntry)
	e.LastAccessedAt = f.clock.Now()
	return e.Value, true
}

// Contains reports whether key is resident.
func (f *FIFO) Contains(key domain.Fingerprint) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[key]
	return ok
}

// Admit inserts value as the newest entry, replacing any previous value for key, then
// evicts the oldest entries until the tier fits its budget.
func (f *FIFO) Admit(key domain.Fingerprint, value domain.Value, size int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if size < 0 || size > f.maxBytes {
		f.removeLocked(key)
		return false
	}

	f.removeLocked(key)
	f.items[key] = f.order.PushBack(&domain.MemoryEntry{
		Key:            key,
		Value:          value,
		SizeBytes:      size,
		LastAccessedAt: f.clock.Now(),
	})
	f.curBytes += size

	for f.curBytes > f.maxBytes {
		front := f.order.Front()
		if front == nil {
			break
		}
		f.removeElement(front)
	}
	return true
}

// Remove drops key if present.
func (f *FIFO) Remove(key domain.Fingerprint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(key)
}

// Clear drops every entry.
func (f *FIFO) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = make(map[domain.Fingerprint]*list.Element)
	f.order.Init()
	f.curBytes = 0
}

// Len returns the number of resident entries.
func (f *FIFO) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Bytes returns the total size of resident entries.
func (f *FIFO) Bytes() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.curBytes
}

func (f *FIFO) removeLocked(key domain.Fingerprint) {
	if el, ok := f.items[key]; ok {
		f.removeElement(el)
	}
}

func (f *FIFO) removeElement(el *list.Element) {
	e := f.order.Remove(el).(*domain.MemoryEntry)
	delete(f.items, e.Key)
	f.curBytes -= e.SizeBytes
}
