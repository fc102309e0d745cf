// Package errs defines custom error types and utilities.
//
// It holds the two error shapes the function produces:
//   - UpstreamError, the single failure kind of a prediction call, rendered
//     into the {"error": "..."} envelope body.
//   - HTTPError, the JSON shape the local HTTP runner returns for failures
//     that never reach the prediction service (unknown route, bad body).
package errs
