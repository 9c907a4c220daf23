package pincache_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pincache/blockstore"
)

// faultStore wraps a MemoryStore with per-name read/write fault injection.
type faultStore struct {
	*blockstore.MemoryStore

	mu        sync.Mutex
	readErrs  map[string]error
	writeErrs map[string]error
}

func newFaultStore() *faultStore {
	return &faultStore{
		MemoryStore: blockstore.NewMemoryStore(blockstore.WithMemoryBlockSize(testBlockSize)),
		readErrs:    make(map[string]error),
		writeErrs:   make(map[string]error),
	}
}

func (s *faultStore) failRead(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErrs[name] = err
}

func (s *faultStore) failWrite(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErrs[name] = err
}

func (s *faultStore) OpenOrCreate(ctx context.Context, name string) (blockstore.Block, error) {
	block, err := s.MemoryStore.OpenOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}
	return &faultBlock{Block: block, store: s, name: name}, nil
}

type faultBlock struct {
	blockstore.Block
	store *faultStore
	name  string
}

func (b *faultBlock) ReadBlock(ctx context.Context, p []byte) error {
	b.store.mu.Lock()
	err := b.store.readErrs[b.name]
	b.store.mu.Unlock()
	if err != nil {
		return err
	}
	return b.Block.ReadBlock(ctx, p)
}

func (b *faultBlock) WriteBlock(ctx context.Context, p []byte) error {
	b.store.mu.Lock()
	err := b.store.writeErrs[b.name]
	b.store.mu.Unlock()
	if err != nil {
		return err
	}
	return b.Block.WriteBlock(ctx, p)
}

// seedBlock writes a zero block so the named object pre-exists in storage.
func seedBlock(t *testing.T, store *blockstore.MemoryStore, name string) {
	t.Helper()

	ctx := context.Background()
	block, err := store.OpenOrCreate(ctx, name)
	require.NoError(t, err)
	require.NoError(t, block.WriteBlock(ctx, make([]byte, testBlockSize)))
	require.NoError(t, block.Close())
}
