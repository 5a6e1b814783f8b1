// Package cohort blob-backed KV for S3-compatible object stores.
package cohort

import (
	"context"
	"strings"
)

// BlobStore is a minimal byte-blob store (e.g. AWS S3, MinIO). See
// cohort/s3blob for the AWS implementation.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// BlobKV adapts a BlobStore to the KV interface. Keys become object keys
// under an optional prefix; a failed Get is treated as a missing key, the
// same way a browser storage read returns null.
type BlobKV struct {
	store  BlobStore
	prefix string
}

// NewBlobKV creates a KV over the given BlobStore and key prefix.
func NewBlobKV(store BlobStore, prefix string) *BlobKV {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BlobKV{store: store, prefix: prefix}
}

func (b *BlobKV) objectKey(key string) string {
	return b.prefix + strings.ReplaceAll(key, ":", "_") + ".json"
}

// Get implements KV.
func (b *BlobKV) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := b.store.Get(ctx, b.objectKey(key))
	if err != nil {
		return "", false, nil
	}
	return string(data), true, nil
}

// Set implements KV.
func (b *BlobKV) Set(ctx context.Context, key, value string) error {
	return b.store.Put(ctx, b.objectKey(key), []byte(value))
}
