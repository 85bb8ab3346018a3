// Package httputil provides HTTP client utilities for talking to a remote
// board server.
//
// The package is deliberately small: retry with exponential backoff for
// transient failures, and the [RetryableError] marker that separates errors
// worth retrying (network faults, 5xx responses) from errors that are final
// (validation failures, missing items).
//
// # Usage
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    if resp.StatusCode >= 500 {
//	        return &httputil.RetryableError{Err: fmt.Errorf("server: %s", resp.Status)}
//	    }
//	    return handle(resp)
//	})
package httputil
