package minio

import (
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pincache/blockstore"
)

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-pincache"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	store := NewStore(client, bucket, "test-prefix/", WithBlockSize(512))
	require.Equal(t, 512, store.BlockSize())

	block, err := store.OpenOrCreate(ctx, "block-001")
	require.NoError(t, err)
	defer block.Close()

	// Fresh object reads as absent.
	buf := make([]byte, 512)
	require.ErrorIs(t, block.ReadBlock(ctx, buf), blockstore.ErrAbsent)

	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, block.WriteBlock(ctx, buf))

	got := make([]byte, 512)
	require.NoError(t, block.ReadBlock(ctx, got))
	assert.Equal(t, buf, got)

	// Reopen through a fresh handle.
	block2, err := store.OpenOrCreate(ctx, "block-001")
	require.NoError(t, err)
	defer block2.Close()

	got2 := make([]byte, 512)
	require.NoError(t, block2.ReadBlock(ctx, got2))
	assert.Equal(t, buf, got2)
}
