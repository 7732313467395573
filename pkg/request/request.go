// Copyright (C) 2025 SAGE-X Project
//
// This file is part of ncmb-go.
//
// ncmb-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ncmb-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ncmb-go.  If not, see <https://www.gnu.org/licenses/>.

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/signer"
	"github.com/sage-x-project/ncmb-go/pkg/version"
)

// Content types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Spec is the caller's description of an API call.
type Spec struct {
	// Method is the HTTP method; defaults to GET.
	Method string

	// Path is relative to the API version segment (e.g. "files/Sample.txt").
	Path string

	// Query parameters, signed along with the request.
	Query url.Values

	// JSON is an optional JSON body; ignored when File is set.
	JSON []byte

	// File is an optional multipart file payload.
	File *File

	// Binary marks calls whose success response is raw bytes (file fetch).
	Binary bool
}

// File is a file upload payload.
type File struct {
	Name string
	Data []byte

	// ACL is optional JSON metadata sent in the "acl" part.
	ACL []byte
}

// Request is a Signed Request. It is immutable once built.
type Request struct {
	method        string
	url           *url.URL
	header        http.Header
	body          []byte
	contentType   string
	signatureBase string
	timestamp     string
	binary        bool
}

type buildConfig struct {
	signer signer.Signer
	now    func() time.Time
}

// Option configures Build.
type Option func(*buildConfig)

// WithSigner overrides the default signer.
func WithSigner(s signer.Signer) Option {
	return func(c *buildConfig) { c.signer = s }
}

// WithClock overrides the clock used for the timestamp and boundary.
func WithClock(now func() time.Time) Option {
	return func(c *buildConfig) { c.now = now }
}

// Build creates a Signed Request for spec against cfg.
func Build(cfg *config.Context, spec Spec, opts ...Option) (*Request, error) {
	if cfg == nil {
		return nil, apierror.New(apierror.KindInvalidArgument, "configuration context is required")
	}

	bc := buildConfig{signer: signer.NewDefaultSigner(), now: time.Now}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&bc)
	}

	method := strings.ToUpper(spec.Method)
	if method == "" {
		method = http.MethodGet
	}

	u, err := buildURL(cfg, spec.Path, spec.Query)
	if err != nil {
		return nil, err
	}

	now := bc.now()
	r := &Request{
		method: method,
		url:    u,
		header: make(http.Header),
		binary: spec.Binary,
	}

	switch {
	case spec.File != nil:
		body, contentType, err := encodeMultipart(spec.File, now)
		if err != nil {
			return nil, err
		}
		r.body = body
		r.contentType = contentType
	case len(spec.JSON) > 0:
		if !json.Valid(spec.JSON) {
			return nil, apierror.New(apierror.KindEncoding, "request body is not valid JSON")
		}
		r.body = bytes.Clone(spec.JSON)
		r.contentType = ContentTypeJSON
	default:
		r.contentType = ContentTypeJSON
	}

	sig, err := bc.signer.Sign(context.Background(), &signer.Input{
		Method:         method,
		URL:            u,
		ApplicationKey: cfg.ApplicationKey(),
		ClientKey:      cfg.ClientKey(),
		Timestamp:      now,
	})
	if err != nil {
		return nil, apierror.Wrap(apierror.KindEncoding, err, "failed to sign request")
	}

	sig.Apply(r.header)
	r.header.Set("Content-Type", r.contentType)
	r.header.Set(signer.HeaderSDKVersion, version.SDKHeaderValue())
	if token := cfg.SessionToken(); token != "" {
		r.header.Set(signer.HeaderSessionToken, token)
	}
	r.signatureBase = sig.Base
	r.timestamp = sig.Timestamp

	return r, nil
}

func buildURL(cfg *config.Context, path string, query url.Values) (*url.URL, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, apierror.New(apierror.KindInvalidArgument, "request path is required")
	}

	segments := strings.Split(path, "/")
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, url.PathEscape(cfg.APIVersion()))
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." {
			return nil, apierror.New(apierror.KindEncoding, "invalid path segment in %q", path)
		}
		if !utf8.ValidString(seg) {
			return nil, apierror.New(apierror.KindEncoding, "path %q is not valid UTF-8", path)
		}
		escaped = append(escaped, url.PathEscape(seg))
	}

	u := cfg.BaseURL()
	rawPath := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, apierror.Wrap(apierror.KindEncoding, err, "invalid path %q", path)
	}
	u.Path = decoded
	u.RawPath = rawPath
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

// ValidateFileName rejects names that cannot travel as one path segment or
// in a Content-Disposition header.
func ValidateFileName(name string) error {
	if name == "" {
		return apierror.New(apierror.KindInvalidArgument, "file name is required")
	}
	if !utf8.ValidString(name) {
		return apierror.New(apierror.KindEncoding, "file name is not valid UTF-8")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return apierror.New(apierror.KindEncoding, "file name %q must not contain a path", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return apierror.New(apierror.KindEncoding, "file name %q contains control characters", name)
		}
	}
	return nil
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// URL returns a copy of the absolute request URL.
func (r *Request) URL() *url.URL {
	u := *r.url
	return &u
}

// Header returns a copy of the request headers.
func (r *Request) Header() http.Header { return r.header.Clone() }

// Body returns a copy of the encoded body.
func (r *Request) Body() []byte { return bytes.Clone(r.body) }

// ContentType returns the Content-Type header value.
func (r *Request) ContentType() string { return r.contentType }

// SignatureBase returns the canonical string that was signed.
func (r *Request) SignatureBase() string { return r.signatureBase }

// Timestamp returns the signed X-NCMB-Timestamp value.
func (r *Request) Timestamp() string { return r.timestamp }

// ExpectsBinary reports whether the success response is raw bytes.
func (r *Request) ExpectsBinary() bool { return r.binary }

// HasBody reports whether the method carries a body on the wire.
func (r *Request) HasBody() bool {
	return r.method == http.MethodPost || r.method == http.MethodPut
}

// String returns "METHOD URL".
func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.method, r.url.Redacted())
}

// HTTPRequest materializes a new *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.HasBody() {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header = r.header.Clone()
	return req, nil
}
