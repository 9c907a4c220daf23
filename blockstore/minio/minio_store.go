// Package minio provides a blockstore.Store backed by MinIO or any
// S3-compatible object storage.
//
// Every block is one fixed-size object. A freshly created block exists as a
// zero-length object until its first write.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/pincache/blockstore"
)

// Store implements blockstore.Store for MinIO and S3-compatible storage.
type Store struct {
	client    *minio.Client
	bucket    string
	prefix    string
	blockSize int
}

// Option configures a Store.
type Option func(*Store)

// WithBlockSize overrides the block size.
func WithBlockSize(n int) Option {
	return func(s *Store) {
		s.blockSize = n
	}
}

// NewStore creates a new MinIO block store.
// bucket is the MinIO bucket name; rootPrefix is prepended to all keys.
func NewStore(client *minio.Client, bucket, rootPrefix string, opts ...Option) *Store {
	s := &Store{
		client:    client,
		bucket:    bucket,
		prefix:    rootPrefix,
		blockSize: blockstore.DefaultBlockSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BlockSize returns the configured block size.
func (s *Store) BlockSize() int {
	return s.blockSize
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// OpenOrCreate opens the block object for name, creating a zero-length
// object if it does not exist.
func (s *Store) OpenOrCreate(ctx context.Context, name string) (blockstore.Block, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code != "NoSuchKey" && errResp.Code != "NotFound" {
			return nil, err
		}
		// Create the object so it exists for subsequent opens.
		_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
		if err != nil {
			return nil, err
		}
		return &minioBlock{store: s, key: key, size: 0}, nil
	}

	return &minioBlock{store: s, key: key, size: info.Size}, nil
}

type minioBlock struct {
	store *Store
	key   string
	size  int64
}

func (b *minioBlock) ReadBlock(ctx context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}
	if b.size == 0 {
		return blockstore.ErrAbsent
	}

	obj, err := b.store.client.GetObject(ctx, b.store.bucket, b.key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	if _, err := io.ReadFull(obj, p); err != nil {
		return fmt.Errorf("blockstore: short block read: %w", err)
	}
	return nil
}

func (b *minioBlock) WriteBlock(ctx context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}

	_, err := b.store.client.PutObject(ctx, b.store.bucket, b.key, bytes.NewReader(p), int64(len(p)), minio.PutObjectOptions{})
	if err != nil {
		return err
	}
	b.size = int64(len(p))
	return nil
}

func (b *minioBlock) Close() error {
	return nil
}
