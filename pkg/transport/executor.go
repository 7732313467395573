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

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/request"
	"github.com/sage-x-project/ncmb-go/pkg/verifier"
)

// Executor runs Signed Requests.
type Executor interface {
	// Execute starts the exchange and returns its handle immediately
	Execute(ctx context.Context, req *request.Request) *Future
}

// HTTPExecutor performs each exchange on its own goroutine with net/http.
type HTTPExecutor struct {
	httpClient *http.Client
	verifier   verifier.ResponseVerifier
	validate   func() bool
	log        logrus.FieldLogger
	metrics    *Metrics
}

// Option configures an HTTPExecutor.
type Option func(*HTTPExecutor)

// WithHTTPClient sets the HTTP client (default http.DefaultClient).
func WithHTTPClient(hc *http.Client) Option {
	return func(e *HTTPExecutor) {
		if hc != nil {
			e.httpClient = hc
		}
	}
}

// WithVerifier sets the response verifier and the switch consulted on every
// exchange to decide whether it runs.
func WithVerifier(v verifier.ResponseVerifier, enabled func() bool) Option {
	return func(e *HTTPExecutor) {
		e.verifier = v
		e.validate = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *HTTPExecutor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(e *HTTPExecutor) { e.metrics = m }
}

// NewHTTPExecutor creates an executor.
func NewHTTPExecutor(opts ...Option) *HTTPExecutor {
	e := &HTTPExecutor{
		httpClient: http.DefaultClient,
		validate:   func() bool { return false },
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Execute implements Executor.
func (e *HTTPExecutor) Execute(ctx context.Context, req *request.Request) *Future {
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture(cancel)
	go func() {
		defer cancel()
		f.resolve(e.exchange(ctx, req))
	}()
	return f
}

// Do runs the exchange on the calling goroutine.
func (e *HTTPExecutor) Do(ctx context.Context, req *request.Request) (*Response, error) {
	return e.exchange(ctx, req)
}

func (e *HTTPExecutor) exchange(ctx context.Context, req *request.Request) (resp *Response, err error) {
	if req == nil {
		return nil, apierror.New(apierror.KindInvalidArgument, "request cannot be nil")
	}

	started := time.Now()
	entry := e.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     req.Method(),
		"url":        req.URL().Redacted(),
	})
	status := 0
	defer func() {
		elapsed := time.Since(started)
		e.metrics.observe(req.Method(), err, elapsed)
		fields := logrus.Fields{"status": status, "duration": elapsed}
		if err != nil {
			fields["error"] = err.Error()
			fields["kind"] = apierror.KindOf(err)
		}
		entry.WithFields(fields).Debug("ncmb exchange finished")
	}()

	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, apierror.Wrap(apierror.KindEncoding, err, "failed to prepare %s", req)
	}

	httpResp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err, "request failed")
	}
	status = httpResp.StatusCode

	// Both success and error bodies are read to the end and closed here.
	body, readErr := io.ReadAll(httpResp.Body)
	closeErr := httpResp.Body.Close()
	if readErr != nil {
		return nil, classify(ctx, readErr, "failed to read response body")
	}
	if closeErr != nil {
		entry.WithError(closeErr).Debug("closing response body")
	}

	if !IsSuccess(httpResp.StatusCode) {
		return nil, apierror.FromResponse(httpResp.StatusCode, body)
	}

	signature := httpResp.Header.Get(verifier.HeaderResponseSignature)
	if e.verifier != nil && e.validate != nil && e.validate() && signature != "" {
		verr := e.verifier.VerifyResponse(ctx, &verifier.ResponseInput{
			SignatureBase: req.SignatureBase(),
			Body:          body,
			Binary:        req.ExpectsBinary(),
			Signature:     signature,
		})
		if verr != nil {
			entry.WithField("status", status).Warn("response signature rejected")
			if apierror.KindOf(verr) == "" {
				verr = apierror.Wrap(apierror.KindIntegrity, verr, "response verification failed")
			}
			return nil, verr
		}
	}

	return decode(httpResp, body, req.ExpectsBinary(), signature)
}

func decode(httpResp *http.Response, body []byte, binary bool, signature string) (*Response, error) {
	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Signature:  signature,
	}

	if binary {
		resp.Bytes = body
		if resp.Bytes == nil {
			resp.Bytes = []byte{}
		}
		return resp, nil
	}

	if len(body) == 0 {
		return resp, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		e := apierror.Wrap(apierror.KindTransport, err, "response body is not a JSON object")
		e.Code = apierror.CodeInvalidResponse
		return nil, e
	}
	resp.JSON = obj
	resp.Text = string(body)
	return resp, nil
}

// classify maps an I/O error to TIMEOUT_ERROR or TRANSPORT_ERROR.
func classify(ctx context.Context, err error, msg string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierror.Wrap(apierror.KindTimeout, err, "%s", msg)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierror.Wrap(apierror.KindTimeout, err, "%s", msg)
	}
	return apierror.Wrap(apierror.KindTransport, err, "%s", msg)
}
