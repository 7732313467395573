// Package signer computes the request signatures required by the mBaaS REST API.
//
// Every request carries three authentication headers:
//
//	X-NCMB-Application-Key: <application key>
//	X-NCMB-Timestamp:       2013-12-02T02:44:35.452Z
//	X-NCMB-Signature:       base64(HMAC-SHA256(clientKey, canonical))
//
// # Canonical String
//
// The signed string is four lines joined by "\n":
//
//	GET
//	mbaas.api.nifcloud.com
//	/2013-09-01/classes/TestClass
//	SignatureMethod=HmacSHA256&SignatureVersion=2&X-NCMB-Application-Key=...&X-NCMB-Timestamp=...&where=%7B%7D
//
// The last line lists the signature parameters together with every query
// parameter (URL-encoded values), sorted by name. The composition is a fixed
// contract with the backend.
//
// # Basic Usage
//
//	s := signer.NewDefaultSigner()
//	sig, err := s.Sign(ctx, &signer.Input{
//	    Method:         http.MethodGet,
//	    URL:            u,
//	    ApplicationKey: appKey,
//	    ClientKey:      clientKey,
//	})
//	if err != nil {
//	    return err
//	}
//	sig.Apply(req.Header)
//
// The returned Signature keeps the canonical string in Base; the response
// verifier appends the response body to it when checking
// X-NCMB-Response-Signature.
//
// # Receiving Side
//
// BaseFromHTTPRequest rebuilds the canonical string of an incoming request,
// which lets test doubles verify X-NCMB-Signature with ComputeHMAC.
//
// # Error Handling
//
// Common signing errors:
//
//   - Nil URL: input or its URL is nil
//   - Empty method, application key or client key
//   - Context canceled: operation interrupted
package signer
