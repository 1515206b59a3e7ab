package backends

import "fmt"

// Range selects a byte range of an object for reading.
// The zero value selects the whole object. Length <= 0 means "from Offset
// to the end of the object".
type Range struct {
	Offset int64
	Length int64
}

// IsZero reports whether the range selects the whole object.
func (r Range) IsZero() bool {
	return r.Offset == 0 && r.Length <= 0
}

// Header renders the range as an HTTP Range header value.
func (r Range) Header() string {
	if r.Length > 0 {
		return fmt.Sprintf("bytes=%d-%d", r.Offset, r.Offset+r.Length-1)
	}
	return fmt.Sprintf("bytes=%d-", r.Offset)
}

// ReadOptions are per-call parameters for Open.
type ReadOptions struct {
	// Range selects a byte range; the zero value reads the whole object.
	Range Range

	// IfMatch makes the read conditional on the object's current ETag.
	IfMatch string
}

// WriteOptions are per-call parameters for Writer. A Writer keeps one set of
// options for its whole lifetime.
type WriteOptions struct {
	ContentType string
	IfMatch     string

	// Append requests append-mode writing. Backends without an append
	// primitive reject it up front.
	Append bool
}

// StatOptions are per-call parameters for Stat.
type StatOptions struct {
	IfMatch string
}

// ListOptions are per-call parameters for List and Scan.
type ListOptions struct {
	// Limit caps the total number of entries yielded across all pages.
	// Zero means unlimited.
	Limit int
}
