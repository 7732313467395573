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

package dispatch

import (
	"context"
	"sync"
)

// Dispatcher runs completion callbacks. A Dispatcher must run every
// callback it accepts exactly once; a Queue that has been closed hands late
// callbacks to its fallback Dispatcher instead of its own Run goroutine.
type Dispatcher interface {
	Dispatch(fn func())
}

// Func adapts a function to Dispatcher.
type Func func(fn func())

// Dispatch calls f(fn).
func (f Func) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks synchronously on the completing goroutine.
var Inline Dispatcher = Func(func(fn func()) { fn() })

// Goroutine runs each callback on a new goroutine.
var Goroutine Dispatcher = Func(func(fn func()) { go fn() })

// Queue delivers callbacks one at a time in submission order.
type Queue struct {
	tasks    chan func()
	fallback Dispatcher

	// mu orders Dispatch against Close: sends happen under the read lock,
	// and Close takes the write lock only after closing is closed, so a
	// blocked send always wakes up before Close seals the queue.
	mu      sync.RWMutex
	closing chan struct{}
	sealed  chan struct{}

	closeOnce sync.Once
	done      chan struct{}
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithFallback sets where callbacks dispatched after Close run (default
// Goroutine).
func WithFallback(d Dispatcher) QueueOption {
	return func(q *Queue) {
		if d != nil {
			q.fallback = d
		}
	}
}

// NewQueue creates a Queue with the given buffer size.
func NewQueue(buffer int, opts ...QueueOption) *Queue {
	if buffer < 0 {
		buffer = 0
	}
	q := &Queue{
		tasks:    make(chan func(), buffer),
		fallback: Goroutine,
		closing:  make(chan struct{}),
		sealed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Dispatch enqueues fn. It blocks while the buffer is full and nobody is
// running the queue, until Close is called. Callbacks dispatched after Close,
// or still blocked when it is called, go to the fallback Dispatcher.
func (q *Queue) Dispatch(fn func()) {
	q.mu.RLock()
	select {
	case <-q.closing:
		q.mu.RUnlock()
		q.fallback.Dispatch(fn)
		return
	default:
	}

	select {
	case q.tasks <- fn:
		q.mu.RUnlock()
	case <-q.closing:
		q.mu.RUnlock()
		q.fallback.Dispatch(fn)
	}
}

// Run executes queued callbacks on the calling goroutine until ctx is done
// or the queue is closed and drained.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-q.tasks:
			fn()
		case <-q.sealed:
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case fn := <-q.tasks:
			fn()
		default:
			return
		}
	}
}

// Start runs the queue on its own goroutine.
func (q *Queue) Start() {
	go func() {
		defer close(q.done)
		q.Run(context.Background())
	}()
}

// Close stops intake. Callbacks already queued are still delivered by Run.
// Close never blocks on a stopped consumer.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closing)
		q.mu.Lock()
		close(q.sealed)
		q.mu.Unlock()
	})
}

// Done is closed when a queue started with Start has drained after Close.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}
