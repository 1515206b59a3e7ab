package obs

import (
	"encoding/xml"
	"io"
	"net/http"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/metrics"
)

// maxErrorBody caps how much of an error response is retained for context.
const maxErrorBody = 4 << 10

// errorResponse is the XML error body returned by OBS.
type errorResponse struct {
	XMLName   xml.Name `xml:"Error"`
	Code      string   `xml:"Code"`
	Message   string   `xml:"Message"`
	RequestID string   `xml:"RequestId"`
}

// parseError turns a non-success response into a backend error. The raw
// body is retained for diagnostics. The response body is always closed.
func parseError(op, path string, resp *http.Response) error {
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	kind := backends.KindUnexpected
	switch resp.StatusCode {
	case http.StatusNotFound:
		kind = backends.KindNotFound
	case http.StatusPreconditionFailed, http.StatusNotModified:
		kind = backends.KindPreconditionFailed
	}

	message := http.StatusText(resp.StatusCode)
	var er errorResponse
	if err := xml.Unmarshal(body, &er); err == nil && er.Code != "" {
		message = er.Code + ": " + er.Message
	}

	metrics.ErrorsTotal.WithLabelValues(op, string(kind)).Inc()

	return &backends.Error{
		Kind:       kind,
		Op:         op,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    message,
		Body:       string(body),
	}
}
