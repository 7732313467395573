package signer

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Request headers carrying authentication data.
const (
	HeaderApplicationKey = "X-NCMB-Application-Key"
	HeaderTimestamp      = "X-NCMB-Timestamp"
	HeaderSignature      = "X-NCMB-Signature"
	HeaderSessionToken   = "X-NCMB-Apps-Session-Token"
	HeaderSDKVersion     = "X-NCMB-SDK-Version"
)

// Signature parameters folded into every canonical string.
const (
	SignatureMethod  = "HmacSHA256"
	SignatureVersion = "2"
)

// TimestampLayout is the wire format of X-NCMB-Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Signer computes request signatures
type Signer interface {
	// Sign builds the canonical string for in and signs it with the client key
	Sign(ctx context.Context, in *Input) (*Signature, error)
}

// Input describes the call being signed
type Input struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE)
	Method string

	// URL is the absolute request URL including query parameters
	URL *url.URL

	// ApplicationKey identifies the application
	ApplicationKey string

	// ClientKey is the HMAC secret
	ClientKey string

	// Timestamp is the signing time; zero means now
	Timestamp time.Time
}

// Signature is the result of signing one request
type Signature struct {
	// Base is the canonical string that was signed. Response verification
	// reuses it.
	Base string

	// Value is the base64 HMAC-SHA256 of Base
	Value string

	// Timestamp is the formatted X-NCMB-Timestamp value
	Timestamp string

	ApplicationKey string
}

// Apply sets the authentication headers on h.
func (s *Signature) Apply(h http.Header) {
	h.Set(HeaderApplicationKey, s.ApplicationKey)
	h.Set(HeaderTimestamp, s.Timestamp)
	h.Set(HeaderSignature, s.Value)
}

// FormatTimestamp renders t in TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
