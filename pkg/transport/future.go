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
	"errors"
	"time"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/dispatch"
)

// Future is the handle of one in-flight exchange. It resolves exactly once
// to either a Response or an error.
type Future struct {
	done   chan struct{}
	resp   *Response
	err    error
	cancel context.CancelFunc
}

func newFuture(cancel context.CancelFunc) *Future {
	if cancel == nil {
		cancel = func() {}
	}
	return &Future{done: make(chan struct{}), cancel: cancel}
}

// NewFuture creates an unresolved Future for custom Executors. resolve must
// be called exactly once.
func NewFuture(cancel context.CancelFunc) (f *Future, resolve func(*Response, error)) {
	f = newFuture(cancel)
	return f, f.resolve
}

// Resolved returns a Future that is already complete.
func Resolved(resp *Response, err error) *Future {
	f := newFuture(nil)
	f.resolve(resp, err)
	return f
}

func (f *Future) resolve(resp *Response, err error) {
	if err != nil {
		resp = nil
	}
	f.resp, f.err = resp, err
	close(f.done)
}

// Done is closed when the exchange has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome; it must only be called after Done is closed.
func (f *Future) Result() (*Response, error) {
	return f.resp, f.err
}

// Cancel signals the worker to stop. The Future still resolves.
func (f *Future) Cancel() {
	f.cancel()
}

// Wait blocks until the exchange finishes or ctx is done. On ctx expiry it
// returns at once with TIMEOUT_ERROR (deadline) or TRANSPORT_ERROR
// (cancellation) and cancels the worker; a result that is already available
// wins over the expiry.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
	}

	select {
	case <-f.done:
		return f.resp, f.err
	default:
	}

	f.cancel()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, apierror.Wrap(apierror.KindTimeout, ctx.Err(), "no response before deadline")
	}
	return nil, apierror.Wrap(apierror.KindTransport, ctx.Err(), "wait canceled")
}

// WaitTimeout waits at most d.
func (f *Future) WaitTimeout(d time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return f.Wait(ctx)
}

// Then delivers the outcome to fn through d once the exchange finishes.
// A nil dispatcher means dispatch.Inline.
func (f *Future) Then(d dispatch.Dispatcher, fn func(*Response, error)) {
	if d == nil {
		d = dispatch.Inline
	}
	go func() {
		<-f.done
		resp, err := f.resp, f.err
		d.Dispatch(func() { fn(resp, err) })
	}()
}
