package backends

import (
	"context"

	"github.com/obsfs/obsfs/metadata"
)

// Pager produces a lazy, finite, forward-only sequence of listing entries.
// A Pager is not restartable and must not be shared between goroutines.
type Pager interface {
	// Next returns the next page of entries. It returns a nil slice once
	// the listing is exhausted. An error terminates the sequence; entries
	// returned by earlier calls remain valid.
	Next(ctx context.Context) ([]*metadata.Entry, error)
}
