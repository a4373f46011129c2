// Package common contains shared constants, sentinel errors and error kinds
// used across the gacha server components.
package common

const (
	// AuthorizationHeaderName is the gRPC metadata key carrying
	// "Bearer <token>" credentials.
	AuthorizationHeaderName = "authorization"

	// ErrorKindTrailerName is the trailer key the transport uses to report
	// the error kind of a failed call.
	ErrorKindTrailerName = "error-kind"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
