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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/request"
	"github.com/sage-x-project/ncmb-go/pkg/signer"
	"github.com/sage-x-project/ncmb-go/pkg/verifier"
)

const (
	testAppKey    = "app-key"
	testClientKey = "client-key"
)

func newBackend(t *testing.T, h http.HandlerFunc) (*httptest.Server, *config.Context) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg, err := config.New(testAppKey, testClientKey, config.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return srv, cfg
}

func build(t *testing.T, cfg *config.Context, spec request.Spec) *request.Request {
	t.Helper()
	req, err := request.Build(cfg, spec)
	require.NoError(t, err)
	return req
}

// respondSigned writes body with a response signature computed over the
// incoming request.
func respondSigned(w http.ResponseWriter, r *http.Request, status int, body []byte, binary bool, key string) {
	sig := verifier.ExpectedSignature(key, &verifier.ResponseInput{
		SignatureBase: signer.BaseFromHTTPRequest(r),
		Body:          body,
		Binary:        binary,
	})
	w.Header().Set(verifier.HeaderResponseSignature, sig)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func TestHTTPExecutor_JSONSuccess(t *testing.T) {
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAppKey, r.Header.Get(signer.HeaderApplicationKey))
		assert.NotEmpty(t, r.Header.Get(signer.HeaderSignature))
		assert.Equal(t, "/2013-09-01/files/Sample.txt", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"fileName":"Sample.txt"}`))
	})

	exec := NewHTTPExecutor()
	resp, err := exec.Execute(context.Background(), build(t, cfg, request.Spec{
		Method: http.MethodPost,
		Path:   "files/Sample.txt",
		File:   &request.File{Name: "Sample.txt", Data: []byte("hello")},
	})).WaitTimeout(5 * time.Second)

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Sample.txt", resp.JSON["fileName"])
	assert.Equal(t, `{"fileName":"Sample.txt"}`, resp.Text)
	assert.False(t, resp.IsBinary())
}

func TestHTTPExecutor_EmptyBody(t *testing.T) {
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp, err := NewHTTPExecutor().Do(context.Background(), build(t, cfg, request.Spec{Method: http.MethodDelete, Path: "files/a.png"}))
	require.NoError(t, err)
	assert.Nil(t, resp.JSON)
	assert.Empty(t, resp.Text)
}

func TestHTTPExecutor_Binary(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G', 0x00}
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})

	resp, err := NewHTTPExecutor().Do(context.Background(), build(t, cfg, request.Spec{Path: "files/a.png", Binary: true}))
	require.NoError(t, err)
	assert.True(t, resp.IsBinary())
	assert.Equal(t, payload, resp.Bytes)
	assert.Nil(t, resp.JSON)
}

func TestHTTPExecutor_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
		msg    string
	}{
		{"backend error", http.StatusNotFound, `{"code":"E404001","error":"No data available."}`, "E404001", "No data available."},
		{"unparseable body", http.StatusInternalServerError, `oops`, apierror.CodeInvalidResponse, "invalid status 500 Internal Server Error"},
		{"non-success 2xx", http.StatusAccepted, `{}`, apierror.CodeInvalidResponse, "invalid status 202 Accepted"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := NewHTTPExecutor().Do(context.Background(), build(t, cfg, request.Spec{Path: "files/missing.png"}))
			assert.Nil(t, resp)
			require.ErrorIs(t, err, apierror.ErrHTTPStatus)

			var apiErr *apierror.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestHTTPExecutor_InvalidJSONSuccess(t *testing.T) {
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	})

	_, err := NewHTTPExecutor().Do(context.Background(), build(t, cfg, request.Spec{Path: "classes/Item"}))
	assert.ErrorIs(t, err, &apierror.Error{Kind: apierror.KindTransport, Code: apierror.CodeInvalidResponse})
}

func TestHTTPExecutor_ResponseValidation(t *testing.T) {
	body := []byte(`{"fileName":"Sample.txt"}`)

	tests := []struct {
		name     string
		enabled  bool
		key      string
		noHeader bool
		wantErr  bool
	}{
		{"valid signature", true, testClientKey, false, false},
		{"bad signature", true, "other-key", false, true},
		{"bad signature ignored when disabled", false, "other-key", false, false},
		{"missing header accepted", true, testClientKey, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.noHeader {
					_, _ = w.Write(body)
					return
				}
				respondSigned(w, r, http.StatusOK, body, false, tt.key)
			})

			logger, hook := logtest.NewNullLogger()
			enabled := tt.enabled
			exec := NewHTTPExecutor(
				WithVerifier(verifier.NewHMACVerifier(testClientKey), func() bool { return enabled }),
				WithLogger(logger),
			)

			resp, err := exec.Do(context.Background(), build(t, cfg, request.Spec{Path: "files/Sample.txt"}))
			if tt.wantErr {
				assert.Nil(t, resp)
				assert.ErrorIs(t, err, apierror.ErrIntegrity)
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Sample.txt", resp.JSON["fileName"])
		})
	}
}

func TestHTTPExecutor_BinaryResponseValidation(t *testing.T) {
	payload := []byte("raw\x00bytes")
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		respondSigned(w, r, http.StatusOK, payload, true, testClientKey)
	})

	exec := NewHTTPExecutor(WithVerifier(verifier.NewHMACVerifier(testClientKey), func() bool { return true }))
	resp, err := exec.Do(context.Background(), build(t, cfg, request.Spec{Path: "files/raw.bin", Binary: true}))
	require.NoError(t, err)
	assert.Equal(t, payload, resp.Bytes)
	assert.NotEmpty(t, resp.Signature)
}

func TestHTTPExecutor_Timeout(t *testing.T) {
	release := make(chan struct{})
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	f := NewHTTPExecutor().Execute(context.Background(), build(t, cfg, request.Spec{Path: "classes/Slow"}))

	start := time.Now()
	_, err := f.WaitTimeout(50 * time.Millisecond)
	assert.ErrorIs(t, err, apierror.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)

	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("worker was not canceled")
	}
}

func TestHTTPExecutor_ContextDeadline(t *testing.T) {
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := NewHTTPExecutor().Do(ctx, build(t, cfg, request.Spec{Path: "classes/Slow"}))
	assert.ErrorIs(t, err, apierror.ErrTimeout)
}

func TestHTTPExecutor_TransportError(t *testing.T) {
	srv, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := NewHTTPExecutor().Do(context.Background(), build(t, cfg, request.Spec{Path: "classes/Item"}))
	assert.ErrorIs(t, err, apierror.ErrTransport)
}

func TestHTTPExecutor_NilRequest(t *testing.T) {
	_, err := NewHTTPExecutor().Execute(context.Background(), nil).WaitTimeout(time.Second)
	assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
}

func TestHTTPExecutor_Metrics(t *testing.T) {
	_, cfg := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"E404001","error":"No data available."}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)
	exec := NewHTTPExecutor(WithMetrics(m))

	_, err = exec.Do(context.Background(), build(t, cfg, request.Spec{Path: "classes/Item"}))
	require.NoError(t, err)
	_, err = exec.Do(context.Background(), build(t, cfg, request.Spec{Method: http.MethodDelete, Path: "classes/Item/1"}))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodDelete, string(apierror.KindHTTPStatus))))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, first.requests, second.requests)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe(http.MethodGet, nil, time.Millisecond) })
}
