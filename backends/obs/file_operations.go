package obs

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/metadata"
	"github.com/obsfs/obsfs/metrics"
)

// CreateDirectory creates a zero-length directory marker at path.
func (a *Adapter) CreateDirectory(ctx context.Context, path string) error {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	resp, err := a.core.putObject(ctx, "create", path, "", "", nil)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return drainBody("create", path, resp)
	default:
		return parseError("create", path, resp)
	}
}

// Open opens an object for reading. The returned body streams directly from
// the response; the caller must close it.
func (a *Adapter) Open(ctx context.Context, path string, opts backends.ReadOptions) (*metadata.Metadata, io.ReadCloser, error) {
	resp, err := a.core.getObject(ctx, path, opts)
	if err != nil {
		return nil, nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		md := parseMetadata(path, resp.Header)
		metrics.BytesTransferred.WithLabelValues("download").Add(float64(md.Size))
		return md, resp.Body, nil
	default:
		return nil, nil, parseError("read", path, resp)
	}
}

// Writer returns a Writer bound to path. Append mode has no OBS primitive
// and is rejected before any request is issued.
func (a *Adapter) Writer(ctx context.Context, path string, opts backends.WriteOptions) (backends.Writer, error) {
	if opts.Append {
		return nil, backends.NewError(backends.KindUnsupported, "write", path, "append write is not supported")
	}
	return &objectWriter{core: a.core, path: path, opts: opts}, nil
}

// Copy performs a server-side copy from src to dst.
func (a *Adapter) Copy(ctx context.Context, src, dst string) error {
	resp, err := a.core.copyObject(ctx, src, dst)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return drainBody("copy", dst, resp)
	default:
		return parseError("copy", dst, resp)
	}
}

// Stat returns metadata for an object or directory. The root is always a
// directory and never touches the network. A 404 on a path with a trailing
// separator also reports a directory: OBS does not materialize empty
// directories as real objects.
func (a *Adapter) Stat(ctx context.Context, path string, opts backends.StatOptions) (*metadata.Metadata, error) {
	if path == "/" || path == "" {
		return metadata.NewDirectory(), nil
	}

	resp, err := a.core.headObject(ctx, path, opts.IfMatch)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := drainBody("stat", path, resp); err != nil {
			return nil, err
		}
		return parseMetadata(path, resp.Header), nil
	case resp.StatusCode == http.StatusNotFound && strings.HasSuffix(path, "/"):
		if err := drainBody("stat", path, resp); err != nil {
			return nil, err
		}
		return metadata.NewDirectory(), nil
	default:
		return nil, parseError("stat", path, resp)
	}
}

// Delete removes an object. Deletion is idempotent: 404 counts as success
// alongside 204 and 202.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	resp, err := a.core.deleteObject(ctx, path)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusAccepted, http.StatusNotFound:
		a.core.logger.Debug("object deleted", zap.String("path", path))
		return drainBody("delete", path, resp)
	default:
		return parseError("delete", path, resp)
	}
}
