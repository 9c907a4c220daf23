package blockstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store implementation for testing and
// embedding. It keeps block content in a map without any filesystem
// dependency. Thread-safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	blocks    map[string][]byte
	blockSize int
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryBlockSize overrides the block size.
func WithMemoryBlockSize(n int) MemoryOption {
	return func(s *MemoryStore) {
		s.blockSize = n
	}
}

// NewMemoryStore creates a new in-memory block store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		blocks:    make(map[string][]byte),
		blockSize: DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlockSize returns the configured block size.
func (s *MemoryStore) BlockSize() int {
	return s.blockSize
}

// OpenOrCreate opens the named block, registering an empty one if it does
// not exist yet.
func (s *MemoryStore) OpenOrCreate(_ context.Context, name string) (Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blocks[name]; !ok {
		s.blocks[name] = nil
	}
	return &memoryBlock{store: s, name: name}, nil
}

// Contents returns a copy of the stored content for name, or nil if the
// block is absent or empty. Intended for assertions in tests.
func (s *MemoryStore) Contents(name string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := s.blocks[name]
	if data == nil {
		return nil
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}

type memoryBlock struct {
	store *MemoryStore
	name  string
}

func (b *memoryBlock) ReadBlock(_ context.Context, p []byte) error {
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()

	data := b.store.blocks[b.name]
	if data == nil {
		return ErrAbsent
	}
	if len(p) != len(data) {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), len(data))
	}
	copy(p, data)
	return nil
}

func (b *memoryBlock) WriteBlock(_ context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}

	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	// Copy to prevent external mutation.
	copied := make([]byte, len(p))
	copy(copied, p)
	b.store.blocks[b.name] = copied
	return nil
}

func (b *memoryBlock) Close() error {
	return nil
}
