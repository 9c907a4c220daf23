package blockstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"

	"github.com/hupe1980/pincache/codec"
)

// LocalStore implements Store using the local file system. Every block is
// one file under the root directory, holding the (optionally compressed)
// block content.
type LocalStore struct {
	root      string
	blockSize int
	codec     codec.Codec
	limiter   *rate.Limiter
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithBlockSize overrides the block size. Must match the size used when the
// files were originally written.
func WithBlockSize(n int) LocalOption {
	return func(s *LocalStore) {
		s.blockSize = n
	}
}

// WithCodec configures at-rest compression for block files.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) LocalOption {
	return func(s *LocalStore) {
		if c == nil {
			c = codec.Default
		}
		s.codec = c
	}
}

// WithWriteLimiter throttles block writes through the given rate limiter.
// One token is consumed per WriteBlock. Pass nil to disable throttling.
func WithWriteLimiter(l *rate.Limiter) LocalOption {
	return func(s *LocalStore) {
		s.limiter = l
	}
}

// NewLocalStore creates a LocalStore rooted at the given directory,
// creating it if necessary.
func NewLocalStore(root string, opts ...LocalOption) (*LocalStore, error) {
	s := &LocalStore{
		root:      root,
		blockSize: DefaultBlockSize,
		codec:     codec.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

// BlockSize returns the configured block size.
func (s *LocalStore) BlockSize() int {
	return s.blockSize
}

// OpenOrCreate opens the block file for name, creating an empty one if it
// does not exist. The file stays open until the returned Block is closed.
func (s *LocalStore) OpenOrCreate(_ context.Context, name string) (Block, error) {
	path := filepath.Join(s.root, name)
	if dir := filepath.Dir(path); dir != s.root {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	return &localBlock{f: f, store: s}, nil
}

type localBlock struct {
	f     *os.File
	store *LocalStore
}

func (b *localBlock) ReadBlock(_ context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}

	info, err := b.f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		// Freshly created, never written.
		return ErrAbsent
	}

	rc, err := b.store.codec.Reader(io.NewSectionReader(b.f, 0, info.Size()))
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.ReadFull(rc, p); err != nil {
		// A short read of a pre-existing file is a failure, not absence.
		return fmt.Errorf("blockstore: short block read: %w", err)
	}
	return nil
}

func (b *localBlock) WriteBlock(ctx context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}

	if b.store.limiter != nil {
		if err := b.store.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	wc, err := b.store.codec.Writer(&buf)
	if err != nil {
		return err
	}
	if _, err := wc.Write(p); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}

	if err := b.f.Truncate(0); err != nil {
		return err
	}
	if _, err := b.f.WriteAt(buf.Bytes(), 0); err != nil {
		return err
	}
	return nil
}

func (b *localBlock) Close() error {
	return b.f.Close()
}
