package obs

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/internal/pathutil"
	"github.com/obsfs/obsfs/internal/signer"
	"github.com/obsfs/obsfs/metadata"
	"github.com/obsfs/obsfs/metrics"
)

const headerCopySource = "x-obs-copy-source"

// core holds the resolved runtime state shared by the adapter and every
// live writer and pager. All fields are set at construction and never
// mutated, so it is safe to share without locking.
type core struct {
	bucket   string
	root     string
	endpoint string // scheme://host, no trailing slash
	signer   *signer.Signer
	client   *http.Client
	logger   *zap.Logger
}

// key converts a caller path into a bucket-relative object key.
func (c *core) key(path string) string {
	return pathutil.Key(c.root, path)
}

// objectURL builds the request URL for an object key.
func (c *core) objectURL(key string) string {
	return c.endpoint + "/" + pathutil.EncodeKey(key)
}

// objectPath converts a listed object key back into a caller path by
// stripping the root prefix.
func (c *core) objectPath(key string) string {
	p := "/" + key
	if c.root != "/" {
		p = strings.TrimPrefix(p, c.root)
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// do signs and sends one request. Signing failure and transport failure are
// both fatal for the call; no retries happen at this layer.
func (c *core) do(op, path, key string, req *http.Request) (*http.Response, error) {
	if err := c.signer.Sign(req, key); err != nil {
		return nil, &backends.Error{
			Kind:    backends.KindUnexpected,
			Op:      op,
			Path:    path,
			Message: "sign request",
			Err:     err,
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues(op, string(backends.KindTransport)).Inc()
		return nil, &backends.Error{
			Kind:    backends.KindTransport,
			Op:      op,
			Path:    path,
			Message: "send request",
			Err:     err,
		}
	}
	metrics.RequestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug("request completed",
		zap.String("operation", op),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	return resp, nil
}

// putObject uploads data as the complete content of path. A nil data slice
// produces a zero-length put, used for directory markers.
func (c *core) putObject(ctx context.Context, op, path, contentType, ifMatch string, data []byte) (*http.Response, error) {
	key := c.key(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(key), bytes.NewReader(data))
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: op, Path: path, Message: "build request", Err: err}
	}
	req.ContentLength = int64(len(data))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}
	return c.do(op, path, key, req)
}

// getObject fetches path, optionally restricted to a byte range.
func (c *core) getObject(ctx context.Context, path string, opts backends.ReadOptions) (*http.Response, error) {
	key := c.key(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectURL(key), nil)
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: "read", Path: path, Message: "build request", Err: err}
	}
	if !opts.Range.IsZero() {
		req.Header.Set("Range", opts.Range.Header())
	}
	if opts.IfMatch != "" {
		req.Header.Set("If-Match", opts.IfMatch)
	}
	return c.do("read", path, key, req)
}

// headObject fetches metadata headers for path.
func (c *core) headObject(ctx context.Context, path, ifMatch string) (*http.Response, error) {
	key := c.key(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.objectURL(key), nil)
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: "stat", Path: path, Message: "build request", Err: err}
	}
	if ifMatch != "" {
		req.Header.Set("If-Match", ifMatch)
	}
	return c.do("stat", path, key, req)
}

// deleteObject deletes path.
func (c *core) deleteObject(ctx context.Context, path string) (*http.Response, error) {
	key := c.key(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(key), nil)
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: "delete", Path: path, Message: "build request", Err: err}
	}
	return c.do("delete", path, key, req)
}

// copyObject server-side copies src to dst. The copy source always names the
// bucket, regardless of addressing style.
func (c *core) copyObject(ctx context.Context, src, dst string) (*http.Response, error) {
	dstKey := c.key(dst)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectURL(dstKey), nil)
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: "copy", Path: src, Message: "build request", Err: err}
	}
	req.Header.Set(headerCopySource, "/"+c.bucket+"/"+pathutil.EncodeKey(c.key(src)))
	return c.do("copy", dst, dstKey, req)
}

// listObjects issues one page of a bucket listing under prefix.
func (c *core) listObjects(ctx context.Context, path, prefix, delimiter, marker string, maxKeys int) (*http.Response, error) {
	query := url.Values{}
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if delimiter != "" {
		query.Set("delimiter", delimiter)
	}
	if marker != "" {
		query.Set("marker", marker)
	}
	if maxKeys > 0 {
		query.Set("max-keys", strconv.Itoa(maxKeys))
	}

	listURL := c.endpoint + "/"
	if len(query) > 0 {
		listURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, &backends.Error{Kind: backends.KindUnexpected, Op: "list", Path: path, Message: "build request", Err: err}
	}
	return c.do("list", path, "", req)
}

// drainBody consumes and closes a success response body. Leaving a success
// body unconsumed can corrupt connection reuse for subsequent calls.
func drainBody(op, path string, resp *http.Response) error {
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return &backends.Error{
			Kind:    backends.KindTransport,
			Op:      op,
			Path:    path,
			Message: "drain response body",
			Err:     err,
		}
	}
	return nil
}

// parseMetadata derives entry metadata from response headers. Entry type
// follows the path: a trailing separator marks a directory.
func parseMetadata(path string, h http.Header) *metadata.Metadata {
	md := &metadata.Metadata{Type: metadata.TypeFile}
	if strings.HasSuffix(path, "/") {
		md.Type = metadata.TypeDirectory
	}
	if v := h.Get("Content-Length"); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil {
			md.Size = size
		}
	}
	md.ContentType = h.Get("Content-Type")
	md.ETag = strings.Trim(h.Get("Etag"), `"`)
	if v := h.Get("Last-Modified"); v != "" {
		if t, err := http.ParseTime(v); err == nil {
			md.LastModified = t
		}
	}
	return md
}
