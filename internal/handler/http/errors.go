package http

import "errors"

// Sentinel errors produced while parsing the Authorization header. All of
// them map to 401 in the auth middleware; they are distinct so the log line
// names the exact failure.
var (
	ErrEmptyAuthorizationHeader = errors.New("authorization header is missing")

	ErrInvalidAuthorizationHeader = errors.New("authorization header is malformed")

	ErrEmptyToken = errors.New("authorization header carries no token")
)
