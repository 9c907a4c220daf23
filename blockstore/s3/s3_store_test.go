package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pincache/blockstore"
)

func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg)

	// Unique prefix per test run.
	prefix := fmt.Sprintf("test-pincache-%d/", time.Now().UnixNano())
	store := NewStore(client, bucket, prefix, WithBlockSize(1024))
	require.Equal(t, 1024, store.BlockSize())

	t.Run("Create and Read", func(t *testing.T) {
		block, err := store.OpenOrCreate(ctx, "block-001")
		require.NoError(t, err)
		defer block.Close()

		// Fresh object reads as absent.
		buf := make([]byte, 1024)
		require.ErrorIs(t, block.ReadBlock(ctx, buf), blockstore.ErrAbsent)

		for i := range buf {
			buf[i] = byte(i)
		}
		require.NoError(t, block.WriteBlock(ctx, buf))

		got := make([]byte, 1024)
		require.NoError(t, block.ReadBlock(ctx, got))
		assert.Equal(t, buf, got)
	})

	t.Run("Reopen", func(t *testing.T) {
		block, err := store.OpenOrCreate(ctx, "block-001")
		require.NoError(t, err)
		defer block.Close()

		got := make([]byte, 1024)
		require.NoError(t, block.ReadBlock(ctx, got))
		assert.Equal(t, byte(1), got[1])
	})
}
