// Package server provides the backend side of the NCMB signing scheme for
// test doubles and local mock backends.
//
// # Basic Usage
//
//	mw := server.NewSignatureMiddleware(appKey, clientKey)
//
//	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    server.WriteJSON(w, http.StatusCreated, map[string]string{"fileName": "Sample.txt"})
//	})
//
//	http.Handle("/2013-09-01/", server.SignResponses(clientKey, mw.Wrap(handler)))
//
// # Request Verification
//
// SignatureMiddleware rebuilds the canonical string of each request from its
// method, host, path, query and X-NCMB-* headers and checks X-NCMB-Signature
// against it. Rejected requests get a 401 with the backend error body:
//
//	{"code":"E401002","error":"Authentication error: ..."}
//
// The verified canonical string is available to handlers via
// SignatureBaseFromContext.
//
// # Optional Verification
//
//	// Allow unsigned requests to pass through
//	mw.SetOptional(true)
//
// # Custom Error Handler
//
//	mw.SetErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
//	    log.Printf("Authentication failed: %v", err)
//	    server.WriteError(w, http.StatusForbidden, "E403001", "forbidden")
//	})
//
// # Response Signatures
//
// SignResponses adds X-NCMB-Response-Signature to every response, computed
// the way clients verify it when response validation is enabled.
package server
