package pincache

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed cache, including Pin
	// calls that were blocked when Close ran.
	ErrClosed = errors.New("pincache: cache is closed")

	// ErrNotResident is returned when accessing a file that is not in the
	// cache. Holding a pin is a precondition of Read and Write; this error
	// indicates a caller bug, surfaced instead of undefined behavior.
	ErrNotResident = errors.New("pincache: file is not resident")

	// ErrNotPinned is returned when accessing a resident file whose pin
	// count is zero. Like ErrNotResident, it indicates a caller bug.
	ErrNotPinned = errors.New("pincache: file is not pinned")
)

// ErrCapacityExceeded indicates a single Pin call asked for more distinct
// files than the cache can ever hold at once. The cache state is unchanged.
// Requested is the number of distinct names in the call.
type ErrCapacityExceeded struct {
	Requested  int
	MaxEntries int
}

func (e *ErrCapacityExceeded) Error() string {
	return fmt.Sprintf("pincache: cannot pin %d files in a cache of %d entries", e.Requested, e.MaxEntries)
}

// ErrLoadFailed indicates that a pre-existing backing object could not be
// opened or read while pinning. Absent objects are not load failures; they
// load as zero-filled blocks.
//
// The underlying storage error can be accessed via errors.Unwrap.
type ErrLoadFailed struct {
	Name  string
	cause error
}

func (e *ErrLoadFailed) Error() string {
	return fmt.Sprintf("pincache: loading %q failed: %v", e.Name, e.cause)
}

func (e *ErrLoadFailed) Unwrap() error { return e.cause }

// ErrFlushFailed indicates that writing a dirty block back to storage
// failed. During eviction it is logged and counted; during Close it is also
// returned to the caller. The slot is reclaimed either way.
//
// The underlying storage error can be accessed via errors.Unwrap.
type ErrFlushFailed struct {
	Name  string
	cause error
}

func (e *ErrFlushFailed) Error() string {
	return fmt.Sprintf("pincache: flushing %q failed: %v", e.Name, e.cause)
}

func (e *ErrFlushFailed) Unwrap() error { return e.cause }
