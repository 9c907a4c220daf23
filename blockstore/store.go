package blockstore

import (
	"context"
	"errors"
)

// DefaultBlockSize is the block size used by the built-in stores when none
// is configured. Every backing object is exactly one block.
const DefaultBlockSize = 10240

// ErrAbsent is returned by Block.ReadBlock when the backing object exists
// but has no content yet (it was freshly created and never written).
//
// Callers use it to distinguish "no data yet" from a read failure: the
// former is substituted with a zero-filled block, the latter is an error.
var ErrAbsent = errors.New("blockstore: block content absent")

// Store is an abstraction for fixed-size block objects on durable storage.
// Implementations must be safe for concurrent use.
type Store interface {
	// OpenOrCreate opens the block object for name, creating an empty one
	// if it does not exist. The returned Block stays open until closed.
	OpenOrCreate(ctx context.Context, name string) (Block, error)

	// BlockSize returns the fixed block size in bytes. All blocks read or
	// written through this store have exactly this size.
	BlockSize() int
}

// Block is an open handle to a single fixed-size block object.
//
// A Block is owned by exactly one cache entry at a time; implementations do
// not need to synchronize ReadBlock/WriteBlock against each other.
type Block interface {
	// ReadBlock reads the full block into p (len(p) == BlockSize).
	// It returns ErrAbsent if the object holds no content yet.
	ReadBlock(ctx context.Context, p []byte) error

	// WriteBlock overwrites the full block with p (len(p) == BlockSize).
	WriteBlock(ctx context.Context, p []byte) error

	// Close releases the handle. It does not flush anything.
	Close() error
}
