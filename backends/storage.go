// Package backends provides object storage backend adapters and interfaces for obsfs.
// It defines the uniform capability set that every provider adapter implements.
package backends

import (
	"context"
	"io"

	"github.com/obsfs/obsfs/metadata"
)

// Capability describes the operations a storage backend supports.
// Callers should consult it before relying on optional operations.
type Capability struct {
	Read    bool
	Write   bool
	Copy    bool
	List    bool
	Scan    bool
	Presign bool
	Append  bool
}

// Storage defines the interface for backend storage operations.
// This interface abstracts object operations across different storage providers.
type Storage interface {
	// Capabilities reports which operations this backend supports
	Capabilities() Capability

	// CreateDirectory creates a zero-length directory marker at path
	CreateDirectory(ctx context.Context, path string) error

	// Open opens an object for reading and returns its metadata and a
	// streaming body the caller must close
	Open(ctx context.Context, path string, opts ReadOptions) (*metadata.Metadata, io.ReadCloser, error)

	// Writer returns a Writer bound to path with the given options
	Writer(ctx context.Context, path string, opts WriteOptions) (Writer, error)

	// Copy performs a server-side copy from src to dst
	Copy(ctx context.Context, src, dst string) error

	// Stat returns metadata for an object or directory
	Stat(ctx context.Context, path string, opts StatOptions) (*metadata.Metadata, error)

	// Delete removes an object; deleting an absent object is not an error
	Delete(ctx context.Context, path string) error

	// List returns a Pager over the entries one level below path,
	// grouping nested keys into directory entries
	List(ctx context.Context, path string, opts ListOptions) (Pager, error)

	// Scan returns a Pager over every object below path, recursively
	Scan(ctx context.Context, path string, opts ListOptions) (Pager, error)

	// Close closes any resources used by the storage backend
	Close() error
}
