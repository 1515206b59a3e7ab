package obs

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/config"
	"github.com/obsfs/obsfs/metadata"
)

func TestStatRootNeedsNoNetwork(t *testing.T) {
	transport := &scriptedTransport{}
	adapter := newTestAdapter(t, transport)

	for _, path := range []string{"/", ""} {
		md, err := adapter.Stat(context.Background(), path, backends.StatOptions{})
		if err != nil {
			t.Fatalf("Stat(%q): %v", path, err)
		}
		if !md.IsDirectory() {
			t.Errorf("Stat(%q) type = %q, want directory", path, md.Type)
		}
	}
	if transport.calls() != 0 {
		t.Errorf("expected zero requests for root stat, got %d", transport.calls())
	}
}

func TestStatFile(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusOK, map[string]string{
			"Content-Length": "42",
			"Content-Type":   "text/plain",
			"Etag":           `"abc123"`,
			"Last-Modified":  "Fri, 01 Mar 2024 12:00:00 GMT",
		}, ""),
	}}
	adapter := newTestAdapter(t, transport)

	md, err := adapter.Stat(context.Background(), "/a.txt", backends.StatOptions{})
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if md.Type != metadata.TypeFile {
		t.Errorf("type = %q", md.Type)
	}
	if md.Size != 42 {
		t.Errorf("size = %d", md.Size)
	}
	if md.ETag != "abc123" {
		t.Errorf("etag = %q", md.ETag)
	}
	if md.ContentType != "text/plain" {
		t.Errorf("content type = %q", md.ContentType)
	}
	if md.LastModified.IsZero() {
		t.Error("last modified not parsed")
	}

	if got := transport.requests[0].Method; got != http.MethodHead {
		t.Errorf("method = %q, want HEAD", got)
	}
}

// OBS does not materialize empty directories; a 404 on a path with a
// trailing separator still reports a directory.
func TestStatTrailingSlash404IsDirectory(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusNotFound, nil, ""),
	}}
	adapter := newTestAdapter(t, transport)

	md, err := adapter.Stat(context.Background(), "/photos/", backends.StatOptions{})
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !md.IsDirectory() {
		t.Errorf("type = %q, want directory", md.Type)
	}
}

func TestStat404WithoutSlashIsNotFound(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusNotFound, nil, ""),
	}}
	adapter := newTestAdapter(t, transport)

	_, err := adapter.Stat(context.Background(), "/a.txt", backends.StatOptions{})
	if !backends.IsNotFound(err) {
		t.Errorf("error kind = %q, want NotFound (%v)", backends.KindOf(err), err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusAccepted, http.StatusNotFound} {
		transport := &scriptedTransport{responses: []*http.Response{
			newResponse(status, nil, ""),
		}}
		adapter := newTestAdapter(t, transport)

		if err := adapter.Delete(context.Background(), "/a.txt"); err != nil {
			t.Errorf("Delete with status %d: %v", status, err)
		}
	}
}

func TestDeleteUnexpectedStatus(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusInternalServerError, nil,
			`<Error><Code>InternalError</Code><Message>We encountered an internal error.</Message></Error>`),
	}}
	adapter := newTestAdapter(t, transport)

	err := adapter.Delete(context.Background(), "/a.txt")
	if backends.KindOf(err) != backends.KindUnexpected {
		t.Fatalf("error kind = %q, want Unexpected", backends.KindOf(err))
	}
	var be *backends.Error
	if !asBackendError(err, &be) {
		t.Fatal("not a backend error")
	}
	if be.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", be.StatusCode)
	}
	if !strings.Contains(be.Message, "InternalError") {
		t.Errorf("message %q does not carry the error code", be.Message)
	}
	if !strings.Contains(be.Body, "internal error") {
		t.Errorf("raw body not retained: %q", be.Body)
	}
}

func TestOpenReadsMetadataAndBody(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusOK, map[string]string{
			"Content-Length": "5",
			"Etag":           `"abc"`,
		}, "hello"),
	}}
	adapter := newTestAdapter(t, transport)

	md, body, err := adapter.Open(context.Background(), "/a.txt", backends.ReadOptions{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	if md.Size != 5 || md.ETag != "abc" {
		t.Errorf("metadata = %+v", md)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("body = %q", data)
	}
}

func TestOpenSetsRangeAndIfMatch(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusPartialContent, map[string]string{"Content-Length": "5"}, "ello "),
	}}
	adapter := newTestAdapter(t, transport)

	_, body, err := adapter.Open(context.Background(), "/a.txt", backends.ReadOptions{
		Range:   backends.Range{Offset: 1, Length: 5},
		IfMatch: `"abc"`,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body.Close()

	req := transport.requests[0]
	if got := req.Header.Get("Range"); got != "bytes=1-5" {
		t.Errorf("Range = %q", got)
	}
	if got := req.Header.Get("If-Match"); got != `"abc"` {
		t.Errorf("If-Match = %q", got)
	}
}

func TestOpenPreconditionFailed(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusPreconditionFailed, nil,
			`<Error><Code>PreconditionFailed</Code><Message>At least one of the preconditions you specified did not hold.</Message></Error>`),
	}}
	adapter := newTestAdapter(t, transport)

	_, _, err := adapter.Open(context.Background(), "/a.txt", backends.ReadOptions{IfMatch: `"stale"`})
	if backends.KindOf(err) != backends.KindPreconditionFailed {
		t.Errorf("error kind = %q, want PreconditionFailed", backends.KindOf(err))
	}
}

func TestCreateDirectory(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusOK, nil, ""),
	}}
	adapter := newTestAdapter(t, transport)

	if err := adapter.CreateDirectory(context.Background(), "/photos"); err != nil {
		t.Fatalf("CreateDirectory: %v", err)
	}

	req := transport.requests[0]
	if req.Method != http.MethodPut {
		t.Errorf("method = %q, want PUT", req.Method)
	}
	if req.URL.Path != "/photos/" {
		t.Errorf("path = %q, want trailing separator", req.URL.Path)
	}
	if req.ContentLength != 0 {
		t.Errorf("content length = %d, want 0", req.ContentLength)
	}
}

func TestCopy(t *testing.T) {
	transport := &scriptedTransport{responses: []*http.Response{
		newResponse(http.StatusOK, nil, "<CopyObjectResult></CopyObjectResult>"),
	}}
	adapter := newTestAdapter(t, transport)

	if err := adapter.Copy(context.Background(), "/a.txt", "/b.txt"); err != nil {
		t.Fatalf("Copy: %v", err)
	}

	req := transport.requests[0]
	if req.Method != http.MethodPut {
		t.Errorf("method = %q, want PUT", req.Method)
	}
	if req.URL.Path != "/b.txt" {
		t.Errorf("destination path = %q", req.URL.Path)
	}
	if got := req.Header.Get(headerCopySource); got != "/test/a.txt" {
		t.Errorf("copy source = %q, want /test/a.txt", got)
	}
}

func TestTransportErrorSurfaced(t *testing.T) {
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})
	adapter := newTestAdapterWithConfig(t, transport, config.BackendConfig{
		Bucket:   "test",
		Endpoint: "https://obs.cn-north-4.myhuaweicloud.com",
	})

	err := adapter.Delete(context.Background(), "/a.txt")
	if backends.KindOf(err) != backends.KindTransport {
		t.Fatalf("error kind = %q, want TransportFailure", backends.KindOf(err))
	}
	var be *backends.Error
	if !asBackendError(err, &be) || be.Err == nil {
		t.Fatal("transport cause not retained")
	}
}

func TestRoundTrip(t *testing.T) {
	store := newFakeObjectStore()
	adapter := newTestAdapterWithConfig(t, store, config.BackendConfig{
		Bucket:   "test",
		Endpoint: "https://obs.cn-north-4.myhuaweicloud.com",
		Root:     "/data",
	})

	ctx := context.Background()
	content := []byte("the quick brown fox")

	writer, err := adapter.Writer(ctx, "/fox.txt", backends.WriteOptions{ContentType: "text/plain"})
	if err != nil {
		t.Fatalf("Writer: %v", err)
	}
	if err := writer.Write(ctx, content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := writer.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	md, body, err := adapter.Open(ctx, "/fox.txt", backends.ReadOptions{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("read back %q, want %q", got, content)
	}
	if md.Size != int64(len(content)) {
		t.Errorf("size = %d, want %d", md.Size, len(content))
	}
}
