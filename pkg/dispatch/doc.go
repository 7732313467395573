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

// Package dispatch decides where asynchronous completion callbacks run.
//
// The embedding application picks a Dispatcher per call:
//
//	// run the callback on the worker goroutine that finished the exchange
//	svc.DoAsync(ctx, spec, dispatch.Inline, cb)
//
//	// deliver every callback, in order, on one goroutine owned by the app
//	q := dispatch.NewQueue(64)
//	go q.Run(appCtx)
//	svc.DoAsync(ctx, spec, q, cb)
//
// Queue.Run executes callbacks on the goroutine that calls it, which is how
// an application keeps callbacks affine to its own event loop.
package dispatch
