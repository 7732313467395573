package signer

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultSigner implements Signer with the HMAC-SHA256 version 2 scheme
type DefaultSigner struct {
	now func() time.Time
}

// NewDefaultSigner creates a new DefaultSigner
func NewDefaultSigner() *DefaultSigner {
	return &DefaultSigner{now: time.Now}
}

// Sign signs the call described by in
func (s *DefaultSigner) Sign(ctx context.Context, in *Input) (*Signature, error) {
	// Check context
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	// Validate inputs
	if in == nil || in.URL == nil {
		return nil, fmt.Errorf("input URL cannot be nil")
	}
	if in.Method == "" {
		return nil, fmt.Errorf("method cannot be empty")
	}
	if in.ApplicationKey == "" {
		return nil, fmt.Errorf("application key cannot be empty")
	}
	if in.ClientKey == "" {
		return nil, fmt.Errorf("client key cannot be empty")
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	timestamp := FormatTimestamp(ts)

	base := BuildSignatureBase(in.Method, in.URL.Host, in.URL.EscapedPath(), in.URL.Query(), in.ApplicationKey, timestamp)

	return &Signature{
		Base:           base,
		Value:          ComputeHMAC(in.ClientKey, base),
		Timestamp:      timestamp,
		ApplicationKey: in.ApplicationKey,
	}, nil
}

// SignRequest signs an outgoing *http.Request in place
func (s *DefaultSigner) SignRequest(ctx context.Context, req *http.Request, applicationKey, clientKey string) (*Signature, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	sig, err := s.Sign(ctx, &Input{
		Method:         req.Method,
		URL:            req.URL,
		ApplicationKey: applicationKey,
		ClientKey:      clientKey,
	})
	if err != nil {
		return nil, err
	}
	sig.Apply(req.Header)
	return sig, nil
}

// BuildSignatureBase creates the canonical string:
//
//	METHOD \n HOST \n PATH \n k1=v1&k2=v2...
//
// The parameter list holds the signature parameters and every query
// parameter, values URL-encoded, sorted by name then value.
func BuildSignatureBase(method, host, escapedPath string, query url.Values, applicationKey, timestamp string) string {
	params := [][2]string{
		{"SignatureMethod", SignatureMethod},
		{"SignatureVersion", SignatureVersion},
		{HeaderApplicationKey, applicationKey},
		{HeaderTimestamp, timestamp},
	}
	for key, values := range query {
		for _, v := range values {
			params = append(params, [2]string{key, url.QueryEscape(v)})
		}
	}
	sort.Slice(params, func(i, j int) bool {
		if params[i][0] != params[j][0] {
			return params[i][0] < params[j][0]
		}
		return params[i][1] < params[j][1]
	})

	pairs := make([]string, len(params))
	for i, p := range params {
		pairs[i] = p[0] + "=" + p[1]
	}

	return strings.Join([]string{
		strings.ToUpper(method),
		host,
		escapedPath,
		strings.Join(pairs, "&"),
	}, "\n")
}

// BaseFromHTTPRequest rebuilds the canonical string of an incoming request
// from its headers; used by backends and test doubles.
func BaseFromHTTPRequest(r *http.Request) string {
	return BuildSignatureBase(
		r.Method,
		r.Host,
		r.URL.EscapedPath(),
		r.URL.Query(),
		r.Header.Get(HeaderApplicationKey),
		r.Header.Get(HeaderTimestamp),
	)
}

// ComputeHMAC returns base64(HMAC-SHA256(key, data))
func ComputeHMAC(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
