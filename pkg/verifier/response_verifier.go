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

package verifier

import (
	"context"
)

// HeaderResponseSignature carries the backend's response signature.
const HeaderResponseSignature = "X-NCMB-Response-Signature"

// ResponseVerifier verifies response integrity signatures
type ResponseVerifier interface {
	// VerifyResponse recomputes the signature for in and compares it with
	// in.Signature
	VerifyResponse(ctx context.Context, in *ResponseInput) error
}

// ResponseInput is what a response signature covers
type ResponseInput struct {
	// SignatureBase is the canonical string of the request
	SignatureBase string

	// Body is the raw response body
	Body []byte

	// Binary selects hex encoding of Body
	Binary bool

	// Signature is the received X-NCMB-Response-Signature value
	Signature string
}
