// Package dedupe tracks identifiers already handled within a collection run.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 10_000

// Deduper records seen ids so each is handled at most once.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so it can be handled again, e.g. after a failed fetch
	// that should be retried on the next run.
	Unrecord(ctx context.Context, id string)

	// Reset forgets every id.
	Reset(ctx context.Context)

	Size() int64
}

// inMemoryDeduper keeps ids in a map. In bounded mode the oldest id is
// evicted once maxSize is reached.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, bounded mode only
	maxSize int      // 0 or negative = unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize && len(d.order) > 0 {
			d.evictOldest()
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	if d.maxSize > 0 {
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen = make(map[string]struct{})
	d.order = nil
	d.size.Store(0)
}

// evictOldest drops the first recorded id. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	oldest := d.order[0]
	d.order = d.order[1:]
	if _, ok := d.seen[oldest]; ok {
		delete(d.seen, oldest)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
