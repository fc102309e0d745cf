// Package service contains the business logic.
//
// It sits between the entry points (Lambda handler, HTTP handlers) and the
// age-prediction API client. It resolves the effective name, performs the
// outbound call and turns the outcome into a status-coded envelope.
package service
