package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/sage-x-project/ncmb-go/pkg/signer"
	"github.com/sage-x-project/ncmb-go/pkg/verifier"
)

// Error code sent when a request signature is rejected.
const CodeAuthenticationError = "E401002"

// Context key for the verified canonical string
type contextKey string

const signatureBaseKey contextKey = "ncmb-signature-base"

// ErrorHandler handles verification errors
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// SignatureMiddleware verifies X-NCMB-Signature on incoming requests the
// way the backend does.
type SignatureMiddleware struct {
	applicationKey string
	clientKey      string
	errorHandler   ErrorHandler
	optional       bool
}

// NewSignatureMiddleware creates a middleware accepting requests signed for
// applicationKey with clientKey.
func NewSignatureMiddleware(applicationKey, clientKey string) *SignatureMiddleware {
	return &SignatureMiddleware{
		applicationKey: applicationKey,
		clientKey:      clientKey,
		errorHandler:   defaultErrorHandler,
	}
}

// SetErrorHandler sets a custom error handler
func (m *SignatureMiddleware) SetErrorHandler(handler ErrorHandler) {
	if handler != nil {
		m.errorHandler = handler
	}
}

// SetOptional sets whether signature verification is optional.
// If true, unsigned requests pass through.
func (m *SignatureMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// Wrap wraps an HTTP handler with signature verification
func (m *SignatureMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		signature := r.Header.Get(signer.HeaderSignature)
		if signature == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.errorHandler(w, r, fmt.Errorf("missing %s header", signer.HeaderSignature))
			return
		}

		if got := r.Header.Get(signer.HeaderApplicationKey); got != m.applicationKey {
			m.errorHandler(w, r, errors.New("unknown application key"))
			return
		}
		if r.Header.Get(signer.HeaderTimestamp) == "" {
			m.errorHandler(w, r, fmt.Errorf("missing %s header", signer.HeaderTimestamp))
			return
		}

		base := signer.BaseFromHTTPRequest(r)
		expected := signer.ComputeHMAC(m.clientKey, base)
		if !hmac.Equal([]byte(expected), []byte(signature)) {
			m.errorHandler(w, r, errors.New("signature verification failed"))
			return
		}

		ctx := context.WithValue(r.Context(), signatureBaseKey, base)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SignatureBaseFromContext returns the canonical string of a request that
// passed SignatureMiddleware.
func SignatureBaseFromContext(ctx context.Context) (string, bool) {
	base, ok := ctx.Value(signatureBaseKey).(string)
	return base, ok
}

// WriteError writes an error body in the backend format.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, map[string]string{"code": code, "error": message})
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, http.StatusUnauthorized, CodeAuthenticationError, fmt.Sprintf("Authentication error: %s", err.Error()))
}

// SignResponses buffers the output of next and adds
// X-NCMB-Response-Signature computed with clientKey over the request's
// canonical string and the body. JSON bodies are signed as text, any other
// body as hex.
func SignResponses(clientKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &bufferedWriter{header: make(http.Header)}
		next.ServeHTTP(rec, r)

		base, ok := SignatureBaseFromContext(r.Context())
		if !ok {
			base = signer.BaseFromHTTPRequest(r)
		}
		body := rec.buf.Bytes()
		sig := verifier.ExpectedSignature(clientKey, &verifier.ResponseInput{
			SignatureBase: base,
			Body:          body,
			Binary:        !isJSON(rec.header.Get("Content-Type")),
		})

		for k, v := range rec.header {
			w.Header()[k] = v
		}
		w.Header().Set(verifier.HeaderResponseSignature, sig)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(rec.statusCode())
		_, _ = io.Copy(w, bytes.NewReader(body))
	})
}

type bufferedWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.buf.Write(p)
}

func (b *bufferedWriter) statusCode() int {
	if b.status == 0 {
		return http.StatusOK
	}
	return b.status
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}
