// Package dedupe tracks trigger delivery ids for at-most-once intake.
//
// This is distinct from the grant ledger's idempotency: the deduper only
// short-circuits redelivered triggers (client retries) inside one process.
// Losing an entry is harmless because re-evaluation is idempotent.
package dedupe

import (
	"context"
	"sync"
)

const defaultMaxSize = 50_000

// Deduper records seen delivery ids.
type Deduper interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the current number of tracked ids.
	Size() int
}

// ringDeduper implements Deduper with a map plus a fixed-size ring of ids
// evicted oldest-first once the bound is reached.
type ringDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	ring []string
	next int
	full bool
}

// Option applies a configuration option to the deduper.
type Option func(*ringDeduper)

// WithMaxSize bounds the number of remembered delivery ids.
func WithMaxSize(size int) Option {
	return func(d *ringDeduper) {
		if size > 0 {
			d.ring = make([]string, size)
		}
	}
}

// NewRingDeduper creates a bounded in-memory deduper.
func NewRingDeduper(opts ...Option) Deduper {
	d := &ringDeduper{
		seen: make(map[string]struct{}),
		ring: make([]string, defaultMaxSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *ringDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.full {
		delete(d.seen, d.ring[d.next])
	}
	d.ring[d.next] = id
	d.seen[id] = struct{}{}
	d.next++
	if d.next == len(d.ring) {
		d.next = 0
		d.full = true
	}
	return false
}

func (d *ringDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
