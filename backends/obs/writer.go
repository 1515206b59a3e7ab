package obs

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/metrics"
)

// objectWriter implements backends.Writer with single-shot whole-body
// uploads. No multipart session is ever opened, so there is nothing
// server-side to abort or finalize.
type objectWriter struct {
	core *core
	path string
	opts backends.WriteOptions
}

// Write uploads p as the complete content of the object. Each call is an
// independent full overwrite with an exact Content-Length.
func (w *objectWriter) Write(ctx context.Context, p []byte) error {
	resp, err := w.core.putObject(ctx, "write", w.path, w.opts.ContentType, w.opts.IfMatch, p)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if err := drainBody("write", w.path, resp); err != nil {
			return err
		}
		metrics.BytesTransferred.WithLabelValues("upload").Add(float64(len(p)))
		w.core.logger.Debug("object written",
			zap.String("path", w.path),
			zap.Int("size", len(p)))
		return nil
	default:
		return parseError("write", w.path, resp)
	}
}

// Append is not supported by OBS.
func (w *objectWriter) Append(ctx context.Context, p []byte) error {
	return backends.NewError(backends.KindUnsupported, "write", w.path, "append write is not supported")
}

// Abort is a no-op: single-shot uploads leave no server-side session.
func (w *objectWriter) Abort(ctx context.Context) error {
	return nil
}

// Close is a no-op: the upload completes within Write.
func (w *objectWriter) Close(ctx context.Context) error {
	return nil
}
