// Package signer implements request signing and credential loading for
// Huawei Cloud OBS. Requests are signed with the OBS variant of the
// HMAC-SHA1 header scheme; requests without resolvable credentials are
// sent unsigned, as an anonymous user.
package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// Environment variables consulted when no explicit credentials are configured
const (
	EnvAccessKeyID     = "OBS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "OBS_SECRET_ACCESS_KEY"
	EnvSecurityToken   = "OBS_SECURITY_TOKEN"
)

const headerSecurityToken = "x-obs-security-token"

// Config holds explicitly supplied credentials. Empty fields fall back to
// the environment.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	SecurityToken   string
}

// Credential is a resolved set of OBS credentials.
type Credential struct {
	AccessKeyID     string
	SecretAccessKey string
	SecurityToken   string
}

// CredentialLoader resolves credentials from explicit configuration first
// and from the environment second.
type CredentialLoader struct {
	cfg Config
}

// NewCredentialLoader creates a loader for the given config.
func NewCredentialLoader(cfg Config) *CredentialLoader {
	return &CredentialLoader{cfg: cfg}
}

// Load resolves credentials. It returns (nil, nil) when no credentials are
// available, which callers treat as anonymous access.
func (l *CredentialLoader) Load() (*Credential, error) {
	ak := l.cfg.AccessKeyID
	sk := l.cfg.SecretAccessKey
	token := l.cfg.SecurityToken
	if ak == "" {
		ak = os.Getenv(EnvAccessKeyID)
	}
	if sk == "" {
		sk = os.Getenv(EnvSecretAccessKey)
	}
	if token == "" {
		token = os.Getenv(EnvSecurityToken)
	}
	if ak == "" || sk == "" {
		return nil, nil
	}
	return &Credential{AccessKeyID: ak, SecretAccessKey: sk, SecurityToken: token}, nil
}

// Signer signs HTTP requests for one bucket. The canonical bucket name is
// fixed at construction: the bare bucket name for default-domain addressing,
// or the full custom host for user-domain addressing.
type Signer struct {
	canonicalBucket string
	loader          *CredentialLoader
	now             func() time.Time
}

// New creates a Signer that embeds canonicalBucket in every signed resource.
func New(canonicalBucket string, loader *CredentialLoader) *Signer {
	return &Signer{
		canonicalBucket: canonicalBucket,
		loader:          loader,
		now:             time.Now,
	}
}

// Sign computes and attaches the Authorization header for req. objectKey is
// the bucket-relative key the request addresses (empty for bucket-level
// requests such as listings). Requests without credentials are left unsigned.
func (s *Signer) Sign(req *http.Request, objectKey string) error {
	cred, err := s.loader.Load()
	if err != nil {
		return err
	}
	if cred == nil {
		return nil
	}

	if cred.SecurityToken != "" {
		req.Header.Set(headerSecurityToken, cred.SecurityToken)
	}
	if req.Header.Get("Date") == "" {
		req.Header.Set("Date", s.now().UTC().Format(http.TimeFormat))
	}

	sts := stringToSign(req, s.resource(objectKey))
	mac := hmac.New(sha1.New, []byte(cred.SecretAccessKey))
	mac.Write([]byte(sts))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("Authorization", "OBS "+cred.AccessKeyID+":"+sig)
	return nil
}

// resource builds the CanonicalizedResource string. With a user domain the
// host stands in for the bucket name, per the OBS signing contract.
func (s *Signer) resource(objectKey string) string {
	return "/" + s.canonicalBucket + "/" + objectKey
}

// stringToSign assembles the OBS StringToSign:
//
//	VERB\nContent-MD5\nContent-Type\nDate\n<canonicalized x-obs- headers>CanonicalizedResource
func stringToSign(req *http.Request, resource string) string {
	var b strings.Builder
	b.WriteString(req.Method)
	b.WriteByte('\n')
	b.WriteString(req.Header.Get("Content-MD5"))
	b.WriteByte('\n')
	b.WriteString(req.Header.Get("Content-Type"))
	b.WriteByte('\n')
	b.WriteString(req.Header.Get("Date"))
	b.WriteByte('\n')
	b.WriteString(canonicalizedHeaders(req.Header))
	b.WriteString(resource)
	return b.String()
}

// canonicalizedHeaders renders the x-obs-* headers sorted by lowercased
// name, one "name:value\n" line each.
func canonicalizedHeaders(h http.Header) string {
	names := make([]string, 0, len(h))
	for name := range h {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, "x-obs-") {
			names = append(names, lower)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(strings.Join(h.Values(name), ","))
		b.WriteByte('\n')
	}
	return b.String()
}
