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

package client

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/dispatch"
	"github.com/sage-x-project/ncmb-go/pkg/request"
	"github.com/sage-x-project/ncmb-go/pkg/signer"
	"github.com/sage-x-project/ncmb-go/pkg/transport"
	"github.com/sage-x-project/ncmb-go/pkg/verifier"
)

// Timeouts
const (
	DefaultTimeout = 10 * time.Second
	FileTimeout    = 120 * time.Second
)

var defaultTimeout atomic.Int64

func init() {
	defaultTimeout.Store(int64(DefaultTimeout))
}

// SetDefaultTimeout changes the timeout of every service that has no
// override. A non-positive d restores DefaultTimeout.
func SetDefaultTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	defaultTimeout.Store(int64(d))
}

// DefaultTimeoutValue returns the current process-wide timeout.
func DefaultTimeoutValue() time.Duration {
	return time.Duration(defaultTimeout.Load())
}

// Callback receives the outcome of an asynchronous call. Exactly one of
// resp and err is non-nil.
type Callback func(resp *transport.Response, err error)

// Service is the shared plumbing of every API service: it signs calls
// against its Context, runs them through an Executor, and maps the outcome.
type Service struct {
	cfg      *config.Context
	executor transport.Executor
	signer   signer.Signer
	timeout  time.Duration
	log      logrus.FieldLogger
	metrics  *transport.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithExecutor replaces the HTTP executor.
func WithExecutor(e transport.Executor) Option {
	return func(s *Service) { s.executor = e }
}

// WithTimeout overrides the process-wide timeout for this service.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the logger; the Context's logger is used otherwise.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records exchanges of the default executor.
func WithMetrics(m *transport.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithSigner replaces the request signer.
func WithSigner(sg signer.Signer) Option {
	return func(s *Service) { s.signer = sg }
}

// NewService creates a Service bound to cfg.
func NewService(cfg *config.Context, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, apierror.New(apierror.KindInvalidArgument, "configuration context is required")
	}

	s := &Service{cfg: cfg}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.log == nil {
		s.log = cfg.Logger()
	}
	if s.signer == nil {
		s.signer = signer.NewDefaultSigner()
	}
	if s.executor == nil {
		s.executor = transport.NewHTTPExecutor(
			transport.WithHTTPClient(cfg.HTTPClient()),
			transport.WithVerifier(verifier.NewHMACVerifier(cfg.ClientKey()), cfg.ResponseValidation),
			transport.WithLogger(s.log),
			transport.WithMetrics(s.metrics),
		)
	}

	return s, nil
}

// Context returns the Configuration Context the service is bound to.
func (s *Service) Context() *config.Context { return s.cfg }

// Timeout returns the effective timeout.
func (s *Service) Timeout() time.Duration {
	if s.timeout > 0 {
		return s.timeout
	}
	return DefaultTimeoutValue()
}

// SessionToken returns the Context's current session token.
func (s *Service) SessionToken() string { return s.cfg.SessionToken() }

// SetSessionToken stores token on the Context, so every service bound to it
// sends the new token.
func (s *Service) SetSessionToken(token string) { s.cfg.SetSessionToken(token) }

// ClearSessionToken removes the Context's session token.
func (s *Service) ClearSessionToken() { s.cfg.ClearSessionToken() }

// Build creates the Signed Request for spec. The session token is read from
// the Context at this point.
func (s *Service) Build(spec request.Spec) (*request.Request, error) {
	return request.Build(s.cfg, spec, request.WithSigner(s.signer))
}

// Do runs spec and waits for the outcome, at most Timeout().
func (s *Service) Do(ctx context.Context, spec request.Spec) (*transport.Response, error) {
	req, err := s.Build(spec)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout())
	defer cancel()

	resp, err := s.executor.Execute(ctx, req).Wait(ctx)
	return s.adapt(req, resp, err)
}

// DoAsync runs spec in the background and delivers the outcome through d
// (dispatch.Inline when nil). cb is called exactly once. The service
// timeout applies as a deadline.
func (s *Service) DoAsync(ctx context.Context, spec request.Spec, d dispatch.Dispatcher, cb Callback) {
	if d == nil {
		d = dispatch.Inline
	}
	deliver := func(resp *transport.Response, err error) {
		if cb != nil {
			d.Dispatch(func() { cb(resp, err) })
		}
	}

	req, err := s.Build(spec)
	if err != nil {
		go deliver(nil, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout())
	f := s.executor.Execute(ctx, req)
	go func() {
		defer cancel()
		resp, err := f.Wait(ctx)
		deliver(s.adapt(req, resp, err))
	}()
}

// adapt maps an executor outcome to exactly one of a success response or an
// error.
func (s *Service) adapt(req *request.Request, resp *transport.Response, err error) (*transport.Response, error) {
	if err != nil {
		if apierror.KindOf(err) == apierror.KindTimeout {
			s.log.WithFields(logrus.Fields{
				"method":  req.Method(),
				"path":    req.URL().Path,
				"timeout": s.Timeout(),
			}).Warn("ncmb call timed out")
		}
		return nil, err
	}
	if resp == nil {
		return nil, apierror.New(apierror.KindTransport, "executor returned no response")
	}
	if !transport.IsSuccess(resp.StatusCode) {
		body := resp.Bytes
		if !resp.IsBinary() {
			body = []byte(resp.Text)
		}
		return nil, apierror.FromResponse(resp.StatusCode, body)
	}
	return resp, nil
}
