// Package metadata defines the object metadata model shared by storage backends.
package metadata

import "time"

// Entry types reported by storage backends
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Metadata represents metadata for an object or pseudo-directory.
// It is derived from response headers or listing bodies and never persisted.
type Metadata struct {
	Type         string    `json:"type"` // "file" or "directory"
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}

// NewDirectory returns metadata describing a directory entry.
func NewDirectory() *Metadata {
	return &Metadata{Type: TypeDirectory}
}

// IsDirectory reports whether the metadata describes a directory entry.
func (m *Metadata) IsDirectory() bool {
	return m.Type == TypeDirectory
}

// Entry is a single listing result: an object path plus its metadata.
type Entry struct {
	Path     string    `json:"path"`
	Metadata *Metadata `json:"metadata"`
}
