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

// Package apierror defines the single error type surfaced by every public
// operation of ncmb-go.
//
// Each error carries exactly one Kind:
//
//   - ENCODING_ERROR: malformed input detected before any I/O
//   - TRANSPORT_ERROR: connection, stream or decoding failure
//   - TIMEOUT_ERROR: a synchronous wait or a call deadline was exceeded
//   - HTTP_STATUS_ERROR: the backend answered with a non-success status
//   - INTEGRITY_ERROR: the response signature did not match
//   - INVALID_ARGUMENT: a required field is missing or unknown
//
// Kinds are matched with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apierror.ErrTimeout) {
//	    // retry later, the call may still have reached the backend
//	}
//
// HTTP_STATUS_ERROR values carry the backend's machine code and message when
// the error body could be parsed:
//
//	var apiErr *apierror.Error
//	if errors.As(err, &apiErr) && apiErr.Code == "E404001" {
//	    // not found
//	}
package apierror
