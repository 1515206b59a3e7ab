package obs

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/obsfs/obsfs/backends"
	"github.com/obsfs/obsfs/metadata"
)

// listOutput is the XML listing body returned by OBS.
type listOutput struct {
	XMLName        xml.Name       `xml:"ListBucketResult"`
	IsTruncated    bool           `xml:"IsTruncated"`
	NextMarker     string         `xml:"NextMarker"`
	Contents       []listObject   `xml:"Contents"`
	CommonPrefixes []commonPrefix `xml:"CommonPrefixes"`
}

type listObject struct {
	Key          string `xml:"Key"`
	Size         int64  `xml:"Size"`
	ETag         string `xml:"ETag"`
	LastModified string `xml:"LastModified"`
}

type commonPrefix struct {
	Prefix string `xml:"Prefix"`
}

// pager walks a marker-paginated listing. It is owned by a single caller;
// marker and budget are mutated only by its own Next.
type pager struct {
	core      *core
	path      string
	prefix    string // bucket-relative key prefix, trailing slash included
	delimiter string
	marker    string
	remaining int
	limited   bool
	done      bool
}

func newPager(c *core, path, delimiter string, limit int) *pager {
	if path != "" && path != "/" && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	prefix := c.key(path)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &pager{
		core:      c,
		path:      path,
		prefix:    prefix,
		delimiter: delimiter,
		remaining: limit,
		limited:   limit > 0,
	}
}

// Next returns the next non-empty page of entries, or nil once the listing
// is exhausted. An error terminates the sequence; entries already returned
// remain valid.
func (p *pager) Next(ctx context.Context) ([]*metadata.Entry, error) {
	for !p.done {
		entries, err := p.nextPage(ctx)
		if err != nil {
			p.done = true
			return nil, err
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}
	return nil, nil
}

func (p *pager) nextPage(ctx context.Context) ([]*metadata.Entry, error) {
	maxKeys := 0
	if p.limited {
		maxKeys = p.remaining
	}
	resp, err := p.core.listObjects(ctx, p.path, p.prefix, p.delimiter, p.marker, maxKeys)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseError("list", p.path, resp)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &backends.Error{
			Kind:    backends.KindTransport,
			Op:      "list",
			Path:    p.path,
			Message: "read listing body",
			Err:     err,
		}
	}

	var out listOutput
	if err := xml.Unmarshal(body, &out); err != nil {
		return nil, &backends.Error{
			Kind:    backends.KindUnexpected,
			Op:      "list",
			Path:    p.path,
			Message: "decode listing body",
			Body:    string(body),
			Err:     err,
		}
	}

	entries := make([]*metadata.Entry, 0, len(out.CommonPrefixes)+len(out.Contents))

	// Common prefixes only appear in delimiter mode; they surface as
	// pseudo-directory entries.
	for _, cp := range out.CommonPrefixes {
		if cp.Prefix == "" {
			continue
		}
		entries = append(entries, &metadata.Entry{
			Path:     p.core.objectPath(cp.Prefix),
			Metadata: metadata.NewDirectory(),
		})
	}

	for _, obj := range out.Contents {
		// The listed prefix's own marker object would duplicate the
		// directory being listed.
		if obj.Key == p.prefix {
			continue
		}
		md := &metadata.Metadata{
			Type: metadata.TypeFile,
			Size: obj.Size,
			ETag: strings.Trim(obj.ETag, `"`),
		}
		if strings.HasSuffix(obj.Key, "/") {
			md.Type = metadata.TypeDirectory
		}
		if obj.LastModified != "" {
			if t, err := time.Parse(time.RFC3339, obj.LastModified); err == nil {
				md.LastModified = t
			}
		}
		entries = append(entries, &metadata.Entry{
			Path:     p.core.objectPath(obj.Key),
			Metadata: md,
		})
	}

	if out.IsTruncated {
		marker := out.NextMarker
		if marker == "" && len(out.Contents) > 0 {
			marker = out.Contents[len(out.Contents)-1].Key
		}
		if marker == "" {
			p.done = true
		} else {
			p.marker = marker
		}
	} else {
		p.done = true
	}

	if p.limited {
		if len(entries) >= p.remaining {
			entries = entries[:p.remaining]
			p.remaining = 0
			p.done = true
		} else {
			p.remaining -= len(entries)
		}
	}

	return entries, nil
}
