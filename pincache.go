package pincache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/pincache/blockstore"
)

// entry is one resident file. All fields are guarded by Cache.mu except the
// content of buf, which is shared with pin holders (see Write).
type entry struct {
	buf   []byte
	pins  int
	dirty bool
	block blockstore.Block
}

// Cache is a fixed-capacity, pin-aware block cache for fixed-size backing
// files. It holds at most maxEntries file images in memory, serves reads and
// writes against those images, and defers write-back until an entry is
// evicted or the cache is closed.
//
// A Cache is safe for concurrent use by multiple goroutines. The file
// mapping and the per-entry pin counts and dirty flags are serialized behind
// one mutex; the buffers handed out by Read and Write are not.
type Cache struct {
	maxEntries       int
	blockSize        int
	store            blockstore.Store
	logger           *Logger
	metrics          MetricsCollector
	flushConcurrency int64

	mu      sync.Mutex
	cond    *sync.Cond
	entries map[string]*entry
	closed  bool

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a Cache holding at most maxEntries files, backed by store.
func New(maxEntries int, store blockstore.Store, opts ...Option) (*Cache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("pincache: max entries must be positive, got %d", maxEntries)
	}
	if store == nil {
		return nil, errors.New("pincache: store must not be nil")
	}

	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		flushConcurrency: 16,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.flushConcurrency <= 0 {
		o.flushConcurrency = 16
	}

	c := &Cache{
		maxEntries:       maxEntries,
		blockSize:        store.BlockSize(),
		store:            store,
		logger:           o.logger,
		metrics:          o.metricsCollector,
		flushConcurrency: o.flushConcurrency,
		entries:          make(map[string]*entry),
	}
	c.cond = sync.NewCond(&c.mu)
	return c, nil
}

// Pin pins every named file in the cache, loading files that are not yet
// resident. A file with no backing content loads as a zero-filled block.
// Each occurrence of a name counts as one pin request, so pinning the same
// name twice in one call increments its pin count twice.
//
// If the cache is full, unpinned entries are evicted to make room, with
// dirty entries written back first. If nothing is evictable, Pin blocks
// until a concurrent Unpin makes an entry evictable; it returns only once
// every requested file is resident and pinned. The admission wait has no
// timeout and does not observe ctx cancellation; a caller that pins more
// files than it ever unpins will block forever. ctx is used for the
// backing-store I/O performed inside the call.
//
// It is the caller's responsibility to keep single-call requests within
// capacity; a request for more distinct names than maxEntries fails with
// ErrCapacityExceeded and leaves the cache unchanged.
func (c *Cache) Pin(ctx context.Context, names ...string) error {
	start := time.Now()
	err := c.pin(ctx, names)
	c.metrics.RecordPin(len(names), time.Since(start), err)
	return err
}

func (c *Cache) pin(ctx context.Context, names []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	// Duplicates of one name share a slot, so capacity constrains the
	// distinct names, not the occurrences.
	distinct := make(map[string]struct{}, len(names))
	for _, name := range names {
		distinct[name] = struct{}{}
	}
	if len(distinct) > c.maxEntries {
		return &ErrCapacityExceeded{Requested: len(distinct), MaxEntries: c.maxEntries}
	}

	// Resident files are pinned immediately; the rest are collected with
	// their per-call pin multiplicity.
	wanted := make(map[string]int, len(names))
	for _, name := range names {
		if ent, ok := c.entries[name]; ok {
			ent.pins++
			c.hits.Add(1)
		} else {
			if wanted[name] == 0 {
				c.misses.Add(1)
			}
			wanted[name]++
		}
	}

	if err := c.fillLocked(ctx, wanted); err != nil {
		return err
	}

	for len(wanted) > 0 {
		for !c.evictableLocked() {
			if c.closed {
				return ErrClosed
			}
			c.cond.Wait()
		}
		if c.closed {
			return ErrClosed
		}

		// Another caller may have loaded some of the wanted files while we
		// waited; adopt those instead of loading them again.
		for name, count := range wanted {
			if ent, ok := c.entries[name]; ok {
				ent.pins += count
				delete(wanted, name)
			}
		}
		if len(wanted) == 0 {
			break
		}

		c.evictLocked(ctx, len(wanted))
		if err := c.fillLocked(ctx, wanted); err != nil {
			return err
		}
	}
	return nil
}

// fillLocked loads wanted files into free slots, removing each loaded name
// from wanted. It stops when the cache is full or wanted is empty.
func (c *Cache) fillLocked(ctx context.Context, wanted map[string]int) error {
	for name, count := range wanted {
		if len(c.entries) >= c.maxEntries {
			return nil
		}

		start := time.Now()
		ent, err := c.load(ctx, name)
		c.metrics.RecordLoad(time.Since(start), err)
		if err != nil {
			// Names pinned earlier in the same call stay pinned.
			return err
		}

		ent.pins = count
		c.entries[name] = ent
		delete(wanted, name)
	}
	return nil
}

func (c *Cache) load(ctx context.Context, name string) (*entry, error) {
	block, err := c.store.OpenOrCreate(ctx, name)
	if err != nil {
		return nil, &ErrLoadFailed{Name: name, cause: err}
	}

	buf := make([]byte, c.blockSize)
	if err := block.ReadBlock(ctx, buf); err != nil {
		if !errors.Is(err, blockstore.ErrAbsent) {
			_ = block.Close()
			return nil, &ErrLoadFailed{Name: name, cause: err}
		}
		// Absent content loads as an all-zero block.
	}
	return &entry{buf: buf, block: block}, nil
}

// evictableLocked reports whether any resident entry is unpinned.
func (c *Cache) evictableLocked() bool {
	for _, ent := range c.entries {
		if ent.pins == 0 {
			return true
		}
	}
	return false
}

// evictLocked removes up to need unpinned entries, writing dirty ones back
// first. There is no ordering among candidates. A flush failure is logged
// and counted but still reclaims the slot.
func (c *Cache) evictLocked(ctx context.Context, need int) int {
	evicted := 0
	for name, ent := range c.entries {
		if evicted == need {
			break
		}
		if ent.pins != 0 {
			continue
		}

		var err error
		if ent.dirty {
			if werr := ent.block.WriteBlock(ctx, ent.buf); werr != nil {
				err = &ErrFlushFailed{Name: name, cause: werr}
			}
		}
		c.logger.LogEvict(name, ent.dirty, err)
		c.metrics.RecordEviction(ent.dirty && err == nil, err)

		_ = ent.block.Close()
		delete(c.entries, name)
		evicted++
	}
	return evicted
}

// Unpin removes one pin from each named file. Each occurrence of a name
// removes one pin. When a pin count reaches zero, goroutines blocked in Pin
// are woken to re-evaluate evictability. Unpin performs no I/O; write-back
// is deferred to eviction or Close.
//
// Unpinning a file that is not resident or not pinned is a caller error; it
// is ignored rather than corrupting state.
func (c *Cache) Unpin(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wake := false
	for _, name := range names {
		ent, ok := c.entries[name]
		if !ok || ent.pins == 0 {
			continue
		}
		ent.pins--
		if ent.pins == 0 {
			wake = true
		}
	}
	if wake {
		c.cond.Broadcast()
	}
}

// Read returns the in-memory block for a pinned file. The same slice is
// returned for every Read and Write of the file while it stays resident.
// Callers must not retain it past their last pin.
func (c *Cache) Read(name string) ([]byte, error) {
	return c.view(name, false)
}

// Write returns the in-memory block for a pinned file and marks the file
// dirty, scheduling a write-back when it is evicted or the cache is closed.
//
// The returned slice is shared between all pin holders of the file. The
// cache does not serialize their access to it: coordinating concurrent
// mutation of the same block is the caller's responsibility, not an
// oversight in the cache.
func (c *Cache) Write(name string) ([]byte, error) {
	return c.view(name, true)
}

func (c *Cache) view(name string, mutate bool) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	ent, ok := c.entries[name]
	if !ok {
		return nil, ErrNotResident
	}
	if ent.pins == 0 {
		return nil, ErrNotPinned
	}
	if mutate {
		ent.dirty = true
	}
	return ent.buf, nil
}

// Close tears the cache down: every remaining entry, pinned or not, is
// written back if dirty and its backing handle is released. Goroutines
// blocked in Pin return ErrClosed. Close is idempotent; only the first call
// does any work. It returns the first flush or close failure, after all
// entries have been processed.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	entries := c.entries
	c.entries = make(map[string]*entry)
	c.cond.Broadcast()
	c.mu.Unlock()

	ctx := context.Background()
	sem := semaphore.NewWeighted(c.flushConcurrency)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for name, ent := range entries {
		wg.Add(1)
		_ = sem.Acquire(ctx, 1)
		go func(name string, ent *entry) {
			defer wg.Done()
			defer sem.Release(1)

			var err error
			if ent.dirty {
				start := time.Now()
				if werr := ent.block.WriteBlock(ctx, ent.buf); werr != nil {
					err = &ErrFlushFailed{Name: name, cause: werr}
				}
				c.metrics.RecordFlush(time.Since(start), err)
				c.logger.LogTeardownFlush(name, ent.pins, err)
			}
			if cerr := ent.block.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}(name, ent)
	}
	wg.Wait()
	return firstErr
}

// Resident returns the number of files currently resident in the cache.
func (c *Cache) Resident() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// BlockSize returns the fixed block size shared with the backing store.
func (c *Cache) BlockSize() int {
	return c.blockSize
}

// Stats returns how many pin requests found their file resident (hits) and
// how many required a load (misses).
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
