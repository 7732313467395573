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
	"crypto/hmac"
	"encoding/hex"

	"github.com/sage-x-project/ncmb-go/pkg/apierror"
	"github.com/sage-x-project/ncmb-go/pkg/signer"
)

// HMACVerifier verifies response signatures with the client key
type HMACVerifier struct {
	clientKey string
}

// NewHMACVerifier creates a verifier for the given client key
func NewHMACVerifier(clientKey string) *HMACVerifier {
	return &HMACVerifier{clientKey: clientKey}
}

// VerifyResponse implements ResponseVerifier
func (v *HMACVerifier) VerifyResponse(ctx context.Context, in *ResponseInput) error {
	if err := ctx.Err(); err != nil {
		return apierror.Wrap(apierror.KindTransport, err, "context error")
	}
	if in == nil {
		return apierror.New(apierror.KindIntegrity, "nothing to verify")
	}
	if in.Signature == "" {
		return apierror.New(apierror.KindIntegrity, "missing %s header", HeaderResponseSignature)
	}

	expected := ExpectedSignature(v.clientKey, in)
	if !hmac.Equal([]byte(expected), []byte(in.Signature)) {
		return apierror.New(apierror.KindIntegrity, "response signature mismatch")
	}
	return nil
}

// VerificationString returns the string covered by a response signature.
func VerificationString(in *ResponseInput) string {
	if len(in.Body) == 0 {
		return in.SignatureBase
	}
	if in.Binary {
		return in.SignatureBase + "\n" + hex.EncodeToString(in.Body)
	}
	return in.SignatureBase + "\n" + string(in.Body)
}

// ExpectedSignature computes the response signature a backend holding
// clientKey would send.
func ExpectedSignature(clientKey string, in *ResponseInput) string {
	return signer.ComputeHMAC(clientKey, VerificationString(in))
}
