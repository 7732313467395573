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

// Package verifier checks the integrity signature the backend attaches to
// responses.
//
// When response validation is enabled, the backend sends
// X-NCMB-Response-Signature, an HMAC-SHA256 (base64) computed with the client
// key over:
//
//	<request canonical string> "\n" <response suffix>
//
// where the suffix is:
//
//   - the lower-case hex encoding of the raw bytes, for binary (file) responses
//   - the body text as received, for JSON responses
//   - nothing, and no separating newline, for bodiless responses
//
// # Usage
//
//	v := verifier.NewHMACVerifier(cfg.ClientKey())
//	err := v.VerifyResponse(ctx, &verifier.ResponseInput{
//	    SignatureBase: req.SignatureBase(),
//	    Body:          body,
//	    Binary:        req.ExpectsBinary(),
//	    Signature:     resp.Header.Get(verifier.HeaderResponseSignature),
//	})
//	if errors.Is(err, apierror.ErrIntegrity) {
//	    // tampered or replayed response
//	}
//
// Verification fails closed: a missing or mismatching signature returns an
// INTEGRITY_ERROR. Callers decide whether an absent header is checked at all.
package verifier
