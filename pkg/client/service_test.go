package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/config"
	"github.com/sage-x-project/ncmb-go/pkg/dispatch"
	"github.com/sage-x-project/ncmb-go/pkg/request"
	"github.com/sage-x-project/ncmb-go/pkg/signer"
	"github.com/sage-x-project/ncmb-go/pkg/transport"
)

// stubExecutor answers every request with a fixed outcome, or never when
// hang is set.
type stubExecutor struct {
	resp  *transport.Response
	err   error
	hang  bool
	calls atomic.Int32
	last  atomic.Pointer[request.Request]
}

func (s *stubExecutor) Execute(ctx context.Context, req *request.Request) *transport.Future {
	s.calls.Add(1)
	s.last.Store(req)
	if s.hang {
		f, _ := transport.NewFuture(nil)
		return f
	}
	return transport.Resolved(s.resp, s.err)
}

func newConfig(t *testing.T, opts ...config.Option) *config.Context {
	t.Helper()
	cfg, err := config.New("app-key", "client-key", opts...)
	require.NoError(t, err)
	return cfg
}

func newService(t *testing.T, cfg *config.Context, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(cfg, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService_NilContext(t *testing.T) {
	_, err := NewService(nil)
	assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
}

func TestService_Timeouts(t *testing.T) {
	cfg := newConfig(t)

	assert.Equal(t, DefaultTimeout, newService(t, cfg).Timeout())
	assert.Equal(t, FileTimeout, newService(t, cfg, WithTimeout(FileTimeout)).Timeout())

	SetDefaultTimeout(3 * time.Second)
	defer SetDefaultTimeout(0)
	assert.Equal(t, 3*time.Second, newService(t, cfg).Timeout())
	assert.Equal(t, FileTimeout, newService(t, cfg, WithTimeout(FileTimeout)).Timeout())

	SetDefaultTimeout(0)
	assert.Equal(t, DefaultTimeout, DefaultTimeoutValue())
}

func TestService_DoSuccess(t *testing.T) {
	exec := &stubExecutor{resp: &transport.Response{StatusCode: http.StatusCreated, JSON: map[string]any{"objectId": "abc"}}}
	svc := newService(t, newConfig(t), WithExecutor(exec))

	resp, err := svc.Do(context.Background(), request.Spec{Method: http.MethodPost, Path: "classes/Item", JSON: []byte(`{"a":1}`)})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.JSON["objectId"])
	assert.Equal(t, int32(1), exec.calls.Load())
}

func TestService_DoTimeoutRegardlessOfWorker(t *testing.T) {
	exec := &stubExecutor{hang: true}
	svc := newService(t, newConfig(t), WithExecutor(exec), WithTimeout(50*time.Millisecond))

	start := time.Now()
	resp, err := svc.Do(context.Background(), request.Spec{Path: "classes/Item"})
	elapsed := time.Since(start)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apierror.ErrTimeout)
	assert.Less(t, elapsed, time.Second)
}

func TestService_NonSuccessResponseBecomesError(t *testing.T) {
	exec := &stubExecutor{resp: &transport.Response{
		StatusCode: http.StatusNotFound,
		Text:       `{"code":"E404001","error":"No data"}`,
	}}
	svc := newService(t, newConfig(t), WithExecutor(exec))

	resp, err := svc.Do(context.Background(), request.Spec{Path: "files/missing.png"})
	assert.Nil(t, resp)

	var apiErr *apierror.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apierror.KindHTTPStatus, apiErr.Kind)
	assert.Equal(t, "E404001", apiErr.Code)
	assert.Equal(t, "No data", apiErr.Message)
}

func TestService_NilResponse(t *testing.T) {
	svc := newService(t, newConfig(t), WithExecutor(&stubExecutor{}))
	_, err := svc.Do(context.Background(), request.Spec{Path: "classes/Item"})
	assert.ErrorIs(t, err, apierror.ErrTransport)
}

func TestService_BuildErrorBeforeExecution(t *testing.T) {
	exec := &stubExecutor{}
	svc := newService(t, newConfig(t), WithExecutor(exec))

	_, err := svc.Do(context.Background(), request.Spec{Method: http.MethodPost, Path: "files/x", File: &request.File{Data: []byte("x")}})
	assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
	assert.Zero(t, exec.calls.Load())
}

func TestService_SessionTokenReadThrough(t *testing.T) {
	cfg := newConfig(t)
	exec := &stubExecutor{resp: &transport.Response{StatusCode: http.StatusOK}}
	svc := newService(t, cfg, WithExecutor(exec))

	_, err := svc.Do(context.Background(), request.Spec{Path: "users/me"})
	require.NoError(t, err)
	assert.Empty(t, exec.last.Load().Header().Get(signer.HeaderSessionToken))

	// login performed through another service bound to the same context
	newService(t, cfg).SetSessionToken("logged-in")

	_, err = svc.Do(context.Background(), request.Spec{Path: "users/me"})
	require.NoError(t, err)
	assert.Equal(t, "logged-in", exec.last.Load().Header().Get(signer.HeaderSessionToken))
	assert.Equal(t, "logged-in", svc.SessionToken())

	svc.ClearSessionToken()
	assert.Empty(t, cfg.SessionToken())
}

func TestService_DoAsyncExactlyOneBranch(t *testing.T) {
	tests := []struct {
		name     string
		exec     *stubExecutor
		wantErr  error
		wantResp bool
	}{
		{"success", &stubExecutor{resp: &transport.Response{StatusCode: http.StatusOK}}, nil, true},
		{"status error", &stubExecutor{resp: &transport.Response{StatusCode: http.StatusBadRequest, Text: `{"code":"E400001","error":"bad"}`}}, apierror.ErrHTTPStatus, false},
		{"transport error", &stubExecutor{err: apierror.New(apierror.KindTransport, "refused")}, apierror.ErrTransport, false},
		{"timeout", &stubExecutor{hang: true}, apierror.ErrTimeout, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t, newConfig(t), WithExecutor(tt.exec), WithTimeout(50*time.Millisecond))

			var calls atomic.Int32
			done := make(chan struct{}, 2)
			svc.DoAsync(context.Background(), request.Spec{Path: "classes/Item"}, dispatch.Goroutine, func(resp *transport.Response, err error) {
				calls.Add(1)
				if tt.wantResp {
					assert.NoError(t, err)
					assert.NotNil(t, resp)
				} else {
					assert.Nil(t, resp)
					assert.ErrorIs(t, err, tt.wantErr)
				}
				done <- struct{}{}
			})

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("callback not delivered")
			}
			time.Sleep(20 * time.Millisecond)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestService_DoAsyncBuildError(t *testing.T) {
	svc := newService(t, newConfig(t), WithExecutor(&stubExecutor{}))

	got := make(chan error, 1)
	svc.DoAsync(context.Background(), request.Spec{}, nil, func(resp *transport.Response, err error) {
		got <- err
	})

	select {
	case err := <-got:
		assert.ErrorIs(t, err, apierror.ErrInvalidArgument)
	case <-time.After(time.Second):
		t.Fatal("callback not delivered")
	}
}

func TestService_DoAsyncThroughQueue(t *testing.T) {
	svc := newService(t, newConfig(t), WithExecutor(&stubExecutor{resp: &transport.Response{StatusCode: http.StatusOK}}))

	q := dispatch.NewQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 5
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		svc.DoAsync(ctx, request.Spec{Path: "classes/Item"}, q, func(resp *transport.Response, err error) {
			results <- resp.StatusCode
			if len(results) == n {
				cancel()
			}
		})
	}

	// the calling goroutine acts as the delivery context
	q.Run(ctx)
	assert.Len(t, results, n)
}

func TestService_DefaultExecutorAgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app-key", r.Header.Get(signer.HeaderApplicationKey))
		assert.Equal(t, "token", r.Header.Get(signer.HeaderSessionToken))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"objectId":"x1"}`))
	}))
	defer srv.Close()

	cfg := newConfig(t, config.WithBaseURL(srv.URL), config.WithSessionToken("token"))
	svc := newService(t, cfg)

	resp, err := svc.Do(context.Background(), request.Spec{Method: http.MethodPost, Path: "classes/Item", JSON: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "x1", resp.JSON["objectId"])
	assert.Same(t, cfg, svc.Context())
}
