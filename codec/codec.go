// Package codec provides at-rest compression for stored blocks.
//
// The in-memory image handed out by the cache is always the uncompressed
// fixed-size block; a codec only changes the bytes on durable storage.
// Codec selection is a breaking-change boundary: blocks written with one
// codec do not decode under another.
package codec

import "io"

// Codec compresses blocks on their way to durable storage and decompresses
// them on the way back.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Name returns the stable codec name.
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = Noop{}

// Noop passes data through unchanged.
type Noop struct{}

// Reader returns r unchanged.
func (Noop) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

// Writer returns w unchanged.
func (Noop) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

// Name returns "noop".
func (Noop) Name() string { return "noop" }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
