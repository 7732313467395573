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
	"net/http"
)

// Status codes treated as success.
var successStatus = map[int]bool{
	http.StatusOK:      true,
	http.StatusCreated: true,
}

// IsSuccess reports whether status is a success status (200 or 201).
func IsSuccess(status int) bool {
	return successStatus[status]
}

// Response is the decoded result of one exchange.
type Response struct {
	StatusCode int
	Header     http.Header

	// JSON is the decoded object for JSON responses; nil when the body was
	// empty or the response is binary.
	JSON map[string]any

	// Text is the JSON body as received.
	Text string

	// Bytes is the raw payload for binary responses.
	Bytes []byte

	// Signature is the X-NCMB-Response-Signature value, if any.
	Signature string
}

// IsBinary reports whether the response carries raw bytes.
func (r *Response) IsBinary() bool {
	return r.Bytes != nil
}
