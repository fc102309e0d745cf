// Package handler is the first layer after the router and the Lambda
// runtime.
//
// It turns an echo request or a raw Lambda event into a service call and
// writes the service result back to the caller.
package handler
