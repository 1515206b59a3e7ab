package obs

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/config"
)

func asBackendError(err error, target **backends.Error) bool {
	return errors.As(err, target)
}

// roundTripFunc adapts a function to http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// scriptedTransport serves a fixed sequence of responses and records the
// requests it saw.
type scriptedTransport struct {
	responses []*http.Response
	requests  []*http.Request
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.requests = append(s.requests, req.Clone(req.Context()))
	if len(s.responses) == 0 {
		return nil, fmt.Errorf("no scripted response for %s %s", req.Method, req.URL)
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

func (s *scriptedTransport) calls() int {
	return len(s.requests)
}

func newResponse(status int, headers map[string]string, body string) *http.Response {
	h := make(http.Header)
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// fakeObjectStore is an in-memory object store behind the HTTP surface,
// enough for write-then-read round trips.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := req.URL.Path
	switch req.Method {
	case http.MethodPut:
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		s.objects[key] = data
		return newResponse(http.StatusOK, nil, ""), nil
	case http.MethodGet, http.MethodHead:
		data, ok := s.objects[key]
		if !ok {
			return newResponse(http.StatusNotFound, nil,
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`), nil
		}
		headers := map[string]string{
			"Content-Length": strconv.Itoa(len(data)),
			"Etag":           `"fake-etag"`,
		}
		if req.Method == http.MethodHead {
			return newResponse(http.StatusOK, headers, ""), nil
		}
		return newResponse(http.StatusOK, headers, string(data)), nil
	case http.MethodDelete:
		delete(s.objects, key)
		return newResponse(http.StatusNoContent, nil, ""), nil
	default:
		return newResponse(http.StatusMethodNotAllowed, nil, ""), nil
	}
}

func newTestAdapter(t *testing.T, rt http.RoundTripper) *Adapter {
	t.Helper()
	return newTestAdapterWithConfig(t, rt, config.BackendConfig{
		Bucket:   "test",
		Endpoint: "https://obs.cn-north-4.myhuaweicloud.com",
		Root:     "/",
	})
}

func newTestAdapterWithConfig(t *testing.T, rt http.RoundTripper, cfg config.BackendConfig) *Adapter {
	t.Helper()
	adapter, err := NewAdapter(cfg, &http.Client{Transport: rt}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	return adapter
}
