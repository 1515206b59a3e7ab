package backends

import "context"

// Writer uploads object content to a single destination path. A Writer is
// bound to one path and one set of WriteOptions for its whole lifetime and
// must not be shared between goroutines.
type Writer interface {
	// Write uploads p as the complete content of the object. Each call is
	// an independent full overwrite; content does not accumulate.
	Write(ctx context.Context, p []byte) error

	// Append appends p to the object. Backends without an append
	// primitive return an Unsupported error without issuing a request.
	Append(ctx context.Context, p []byte) error

	// Abort cancels any server-side upload session held by the Writer.
	Abort(ctx context.Context) error

	// Close finalizes the upload.
	Close(ctx context.Context) error
}
