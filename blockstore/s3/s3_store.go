// Package s3 provides a blockstore.Store backed by Amazon S3.
//
// Every block is one fixed-size object. A freshly created block exists as a
// zero-length object until its first write.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/pincache/blockstore"
)

// Store implements blockstore.Store for S3.
type Store struct {
	client    *s3.Client
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

// NewStore creates a new S3 block store.
// rootPrefix is prepended to all keys (e.g. "blocks/").
func NewStore(client *s3.Client, bucket, rootPrefix string, opts ...Option) *Store {
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

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		var nsk *types.NoSuchKey
		if !errors.As(err, &nf) && !errors.As(err, &nsk) {
			return nil, err
		}
		// Create the object so it exists for subsequent opens.
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(nil),
		})
		if err != nil {
			return nil, err
		}
		return &s3Block{store: s, key: key, size: 0}, nil
	}

	return &s3Block{store: s, key: key, size: *head.ContentLength}, nil
}

type s3Block struct {
	store *Store
	key   string
	size  int64
}

func (b *s3Block) ReadBlock(ctx context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}
	if b.size == 0 {
		return blockstore.ErrAbsent
	}

	out, err := b.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.store.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		return err
	}
	defer out.Body.Close()

	if _, err := io.ReadFull(out.Body, p); err != nil {
		return fmt.Errorf("blockstore: short block read: %w", err)
	}
	return nil
}

func (b *s3Block) WriteBlock(ctx context.Context, p []byte) error {
	if len(p) != b.store.blockSize {
		return fmt.Errorf("blockstore: buffer size %d does not match block size %d", len(p), b.store.blockSize)
	}

	_, err := b.store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.store.bucket),
		Key:    aws.String(b.key),
		Body:   bytes.NewReader(p),
	})
	if err != nil {
		return err
	}
	b.size = int64(len(p))
	return nil
}

func (b *s3Block) Close() error {
	return nil
}
