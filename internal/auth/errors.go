package auth

import "errors"

var (
	// ErrUnauthorized is returned for a missing, unknown or expired session token.
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrStoreUnavailable wraps session store failures. It is not an auth
	// decision and must surface as an internal error.
	ErrStoreUnavailable = errors.New("auth: session store unavailable")

	// ErrEmptyUserID is returned by Issue when no user is given.
	ErrEmptyUserID = errors.New("auth: empty user id")
)
