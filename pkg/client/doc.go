// Package client provides Service, the plumbing shared by every NCMB API
// service.
//
// A Service is bound to one config.Context. Each call builds a Signed
// Request from the Context's current keys and session token, runs it
// through a transport.Executor, and maps the outcome to exactly one of a
// response or an *apierror.Error.
//
// # Basic Usage
//
//	cfg, _ := config.New(appKey, clientKey)
//	svc, _ := client.NewService(cfg)
//
//	resp, err := svc.Do(ctx, request.Spec{
//	    Method: http.MethodGet,
//	    Path:   "classes/Item",
//	})
//	if errors.Is(err, apierror.ErrTimeout) {
//	    // no answer within svc.Timeout()
//	}
//
// # Asynchronous Calls
//
//	svc.DoAsync(ctx, spec, dispatch.Goroutine, func(resp *transport.Response, err error) {
//	    if err != nil {
//	        log.Printf("call failed: %v", err)
//	        return
//	    }
//	    fmt.Println(resp.JSON)
//	})
//
// The callback fires once, through the dispatcher chosen by the caller.
// Non-2xx responses reach the error branch as HTTP_STATUS_ERROR.
//
// # Sessions
//
// The session token is not cached by the Service. A login recorded on the
// Context is seen by every Service already bound to it.
//
// # Timeouts
//
// Calls use DefaultTimeout (10s) unless WithTimeout overrides it or
// SetDefaultTimeout changes it for the whole process. File services use
// FileTimeout (120s). A sync call that times out returns promptly even if
// the executor never resolves.
package client
