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

package config

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/version"
)

// DefaultBaseURL is the production mBaaS endpoint.
const DefaultBaseURL = "https://mbaas.api.nifcloud.com"

// Context is the Configuration Context: keys, endpoint and session state.
type Context struct {
	applicationKey string
	clientKey      string
	baseURL        *url.URL
	apiVersion     string

	httpClient *http.Client
	logger     logrus.FieldLogger
	registerer prometheus.Registerer

	mu           sync.RWMutex
	sessionToken string

	validate atomic.Bool

	attachMu    sync.Mutex
	attachments map[any]any
}

// Option configures a Context.
type Option func(*Context) error

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(raw string) Option {
	return func(c *Context) error {
		u, err := parseBaseURL(raw)
		if err != nil {
			return err
		}
		c.baseURL = u
		return nil
	}
}

// WithAPIVersion overrides the API revision path segment.
func WithAPIVersion(v string) Option {
	return func(c *Context) error {
		v = strings.Trim(v, "/")
		if v == "" {
			return apierror.New(apierror.KindInvalidArgument, "api version cannot be empty")
		}
		c.apiVersion = v
		return nil
	}
}

// WithSessionToken sets the initial session token.
func WithSessionToken(token string) Option {
	return func(c *Context) error {
		c.sessionToken = token
		return nil
	}
}

// WithResponseValidation sets the initial response validation mode.
func WithResponseValidation(enabled bool) Option {
	return func(c *Context) error {
		c.validate.Store(enabled)
		return nil
	}
}

// WithHTTPClient sets the HTTP client used by services built from the Context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Context) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger used by services built from the Context.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Context) error {
		c.logger = l
		return nil
	}
}

// WithRegisterer enables transport metrics registered on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *Context) error {
		c.registerer = r
		return nil
	}
}

// New creates a Context for the given application.
func New(applicationKey, clientKey string, opts ...Option) (*Context, error) {
	if applicationKey == "" {
		return nil, apierror.New(apierror.KindInvalidArgument, "application key is required")
	}
	if clientKey == "" {
		return nil, apierror.New(apierror.KindInvalidArgument, "client key is required")
	}

	base, _ := url.Parse(DefaultBaseURL)
	c := &Context{
		applicationKey: applicationKey,
		clientKey:      clientKey,
		baseURL:        base,
		apiVersion:     version.APIVersion,
		attachments:    make(map[any]any),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSuffix(raw, "/"))
	if err != nil {
		return nil, apierror.Wrap(apierror.KindInvalidArgument, err, "invalid base URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apierror.New(apierror.KindInvalidArgument, "base URL %q must be http or https", raw)
	}
	if u.Host == "" {
		return nil, apierror.New(apierror.KindInvalidArgument, "base URL %q has no host", raw)
	}
	return u, nil
}

// ApplicationKey returns the application key.
func (c *Context) ApplicationKey() string { return c.applicationKey }

// ClientKey returns the client key used as HMAC secret.
func (c *Context) ClientKey() string { return c.clientKey }

// BaseURL returns a copy of the endpoint URL.
func (c *Context) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// APIVersion returns the API revision path segment.
func (c *Context) APIVersion() string { return c.apiVersion }

// HTTPClient returns the configured HTTP client, or nil.
func (c *Context) HTTPClient() *http.Client { return c.httpClient }

// Logger returns the configured logger, or logrus.StandardLogger().
func (c *Context) Logger() logrus.FieldLogger {
	if c.logger == nil {
		return logrus.StandardLogger()
	}
	return c.logger
}

// Registerer returns the metrics registerer, or nil when metrics are off.
func (c *Context) Registerer() prometheus.Registerer { return c.registerer }

// SessionToken returns the current session token ("" when logged out).
func (c *Context) SessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionToken
}

// SetSessionToken replaces the session token, typically after login.
func (c *Context) SetSessionToken(token string) {
	c.mu.Lock()
	c.sessionToken = token
	c.mu.Unlock()
}

// ClearSessionToken removes the session token, typically after logout.
func (c *Context) ClearSessionToken() {
	c.SetSessionToken("")
}

// ResponseValidation reports whether response signatures are checked.
func (c *Context) ResponseValidation() bool {
	return c.validate.Load()
}

// SetResponseValidation toggles response signature checks for every
// service built against the Context.
func (c *Context) SetResponseValidation(enabled bool) {
	c.validate.Store(enabled)
}

// LoadOrStore returns the value attached under key, calling build to create
// it on first use. build runs at most once per key; a failed build stores
// nothing.
func (c *Context) LoadOrStore(key any, build func() (any, error)) (any, error) {
	c.attachMu.Lock()
	defer c.attachMu.Unlock()

	if v, ok := c.attachments[key]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		return nil, err
	}
	c.attachments[key] = v
	return v, nil
}
