// Package middleware stores the echo middleware of the local HTTP runner.
//
// These intercept requests to handle cross-cutting concerns such as
// request ids, request-scoped logging, request logging, CORS, tracing and
// panic recovery.
package middleware
