// Package pathutil provides path normalization and key building utilities
// shared by object storage backends.
package pathutil

import (
	"net/url"
	"strings"
)

// NormalizeRoot normalizes a configured root prefix: slashes are collapsed,
// a leading slash is ensured and the trailing slash is stripped except for
// the root itself.
func NormalizeRoot(root string) string {
	parts := strings.Split(root, "/")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return "/"
	}
	return "/" + strings.Join(cleaned, "/")
}

// Key joins a caller path with the normalized root and returns the object
// key relative to the bucket (no leading slash). A trailing slash on path is
// preserved since it marks a directory.
func Key(root, path string) string {
	trailing := strings.HasSuffix(path, "/") && path != "/"

	joined := root + "/" + path
	parts := strings.Split(joined, "/")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		cleaned = append(cleaned, p)
	}
	key := strings.Join(cleaned, "/")
	if key != "" && trailing {
		key += "/"
	}
	return key
}

// EncodeKey percent-encodes an object key per path segment, leaving the
// segment separators intact.
func EncodeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
