// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains the age-prediction API client (agify) and the
// JSON codec shared by the client and the service layer.
package lib
