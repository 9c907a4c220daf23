package blockstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore(WithMemoryBlockSize(32))
	require.Equal(t, 32, store.BlockSize())

	ctx := context.Background()
	block, err := store.OpenOrCreate(ctx, "f")
	require.NoError(t, err)
	defer block.Close()

	buf := make([]byte, 32)
	require.ErrorIs(t, block.ReadBlock(ctx, buf), ErrAbsent)
	assert.Nil(t, store.Contents("f"))

	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, block.WriteBlock(ctx, buf))

	got := make([]byte, 32)
	require.NoError(t, block.ReadBlock(ctx, got))
	assert.Equal(t, buf, got)
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore(WithMemoryBlockSize(8))

	ctx := context.Background()
	block, err := store.OpenOrCreate(ctx, "f")
	require.NoError(t, err)
	defer block.Close()

	buf := []byte("aaaaaaaa")
	require.NoError(t, block.WriteBlock(ctx, buf))

	// Mutating the caller's buffer does not leak into the store.
	buf[0] = 'z'
	assert.Equal(t, []byte("aaaaaaaa"), store.Contents("f"))

	// Contents returns a copy, too.
	contents := store.Contents("f")
	contents[0] = 'z'
	assert.Equal(t, []byte("aaaaaaaa"), store.Contents("f"))
}

func TestMemoryStore_WrongSizeRejected(t *testing.T) {
	store := NewMemoryStore(WithMemoryBlockSize(16))

	ctx := context.Background()
	block, err := store.OpenOrCreate(ctx, "f")
	require.NoError(t, err)
	defer block.Close()

	assert.Error(t, block.WriteBlock(ctx, make([]byte, 8)))
}
