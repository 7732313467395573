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

// Package transport executes Signed Requests against the backend.
//
// An Executor starts an exchange and hands back a Future at once. The
// Future is the single execution primitive behind both call styles:
//
//	f := exec.Execute(ctx, req)
//
//	// blocking, bounded by a timeout
//	resp, err := f.WaitTimeout(10 * time.Second)
//
//	// asynchronous, delivered through a dispatcher
//	f.Then(dispatch.Goroutine, func(resp *transport.Response, err error) {
//	    ...
//	})
//
// # Response handling
//
// Only 200 and 201 are success. Any other status becomes an
// HTTP_STATUS_ERROR parsed from the {"code","error"} body. Success bodies are
// decoded as a JSON object, or kept as raw bytes for binary calls.
//
// When response validation is switched on and the response carries
// X-NCMB-Response-Signature, the signature is checked before the body is
// decoded. A mismatch yields INTEGRITY_ERROR.
//
// # Metrics
//
// HTTPExecutor optionally records ncmb_client_requests_total and
// ncmb_client_request_duration_seconds on a Prometheus registerer.
package transport
