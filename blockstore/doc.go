// Package blockstore provides storage abstraction for pincache's fixed-size
// backing blocks.
//
// Store is the interface for opening block objects; Block is an open handle
// to a single object. Every object is exactly one fixed-size block; there
// are no partial reads or writes. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: one file per block under a root directory, with optional
//     at-rest compression and write throttling
//   - MemoryStore: in-memory blocks for testing and embedding
//   - s3.Store: fixed-size objects on Amazon S3
//   - minio.Store: fixed-size objects on MinIO / S3-compatible storage
//
// # Custom Implementations
//
// Implement the Store interface to support custom backends:
//
//	type Store interface {
//	    OpenOrCreate(ctx, name) (Block, error)  // Open, creating if absent
//	    BlockSize() int                         // Fixed block size
//	}
//
// A freshly created object must report ErrAbsent from ReadBlock until its
// first WriteBlock; the cache substitutes a zero-filled block for it. Any
// other read failure is surfaced to the pinning caller.
package blockstore
