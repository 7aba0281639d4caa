package auth

import "errors"

// Sentinel errors for the authentication/authorization taxonomy
// buckets named in spec.md §7.
var (
	ErrAuthentication   = errors.New("authentication failed")
	ErrUnknownToken     = errors.New("unknown or expired session token")
	ErrPermissionDenied = errors.New("permission denied")
)
