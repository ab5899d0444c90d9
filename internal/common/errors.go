// Package common defines shared constants and sentinel errors used across
// the client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrorStoreUnavailable marks any record store failure that is not a
	// domain outcome (connection loss, timeouts, unexpected driver errors).
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Account errors.
	ErrorEmailTaken         = errors.New("credentials taken")
	ErrorInvalidCredentials = errors.New("credentials incorrect")

	// Guard errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
)
