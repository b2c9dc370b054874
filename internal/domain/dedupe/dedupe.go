// Package dedupe tracks assignment ids so a commit is applied at most once.
package dedupe

import (
	"context"
	"sync"
)

const defaultCapacity = 4096

// Deduper records seen ids.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool
	// Unrecord forgets id so a commit that could not be queued may be retried.
	Unrecord(ctx context.Context, id string)
	// Size is the number of ids currently remembered.
	Size() int
}

// ringDeduper remembers the most recent ids in a fixed ring; the oldest id is
// forgotten once the ring is full.
type ringDeduper struct {
	mu   sync.Mutex
	ring []string
	next int
	pos  map[string]int
}

// New creates a bounded deduper.
func New(opts ...Option) Deduper {
	d := &ringDeduper{ring: make([]string, defaultCapacity)}
	for _, opt := range opts {
		opt(d)
	}
	d.pos = make(map[string]int, len(d.ring))
	return d
}

func (d *ringDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.pos[id]; ok {
		return true
	}
	if old := d.ring[d.next]; old != "" {
		delete(d.pos, old)
	}
	d.ring[d.next] = id
	d.pos[id] = d.next
	d.next = (d.next + 1) % len(d.ring)
	return false
}

func (d *ringDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if i, ok := d.pos[id]; ok {
		d.ring[i] = ""
		delete(d.pos, id)
	}
}

func (d *ringDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pos)
}
