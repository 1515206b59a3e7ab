package obs

import (
	"context"

	"github.com/obsfs/obsfs/backends"
)

// List returns a Pager over the entries one level below path. Nested keys
// are grouped into directory entries via the "/" delimiter.
func (a *Adapter) List(ctx context.Context, path string, opts backends.ListOptions) (backends.Pager, error) {
	return newPager(a.core, path, "/", opts.Limit), nil
}

// Scan returns a Pager over every object below path. Without a delimiter
// the listing enumerates keys recursively, flat.
func (a *Adapter) Scan(ctx context.Context, path string, opts backends.ListOptions) (backends.Pager, error) {
	return newPager(a.core, path, "", opts.Limit), nil
}
