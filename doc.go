// Package pincache provides a fixed-capacity, pin-aware block cache for
// fixed-size backing files.
//
// The cache sits between application goroutines and a blockstore.Store,
// holding at most a configured number of file images in memory. Callers pin
// the files they work with, read or write the in-memory blocks directly,
// and unpin them when done. Writes mark an entry dirty; dirty entries are
// written back to storage when they are evicted or when the cache is
// closed, never before.
//
// # Quick Start
//
//	ctx := context.Background()
//	store, _ := blockstore.NewLocalStore("./data")
//	c, _ := pincache.New(64, store)
//	defer c.Close()
//
//	if err := c.Pin(ctx, "alpha", "beta"); err != nil {
//	    log.Fatal(err)
//	}
//	buf, _ := c.Write("alpha")
//	copy(buf, payload)
//	c.Unpin("alpha", "beta")
//
// # Pinning Model
//
// Pin counts are the synchronization contract: a pinned file is never
// evicted, no matter how many distinct holders contributed to its count.
// Two goroutines pinning the same file both see the same block, and the
// file stays resident until both have unpinned it.
//
// When the cache is full and nothing is evictable, Pin blocks until a
// concurrent Unpin frees an entry. There is no fairness among blocked
// pinners and no deadlock detection: a caller that pins more files than
// capacity allows without unpinning blocks forever.
//
// # Backing Storage
//
// Storage is abstracted behind blockstore.Store. The package ships local
// filesystem, in-memory, S3, and MinIO implementations; all of them treat a
// file as one opaque fixed-size block (10 KiB by default). A file with no
// backing content yet loads as a zero-filled block.
package pincache
