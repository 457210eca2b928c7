package storage

import (
	"context"
	"io"
	"time"
)

// Package storage is the content-addressable blob store collaborator:
// document bytes live in an S3-compatible object store keyed by storage path.
// Implementations must rely on streaming I/O only, never local disk.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for document bytes. Saving an edited
// document is a plain Put to the document's existing key: the store keeps the
// latest bytes only, no versioning.
type Storage interface {
	// Put uploads an object under the given key, overwriting any previous
	// object at that key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials. The editor fetches document bytes this way.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
