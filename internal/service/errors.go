package service

import "errors"

// Validation and authorization errors returned by service operations.
// Callers should use [errors.Is]. Storage-level sentinels (not found,
// watermark conflict, duplicates) pass through from the store package
// unchanged.
var (
	// ErrValidation marks any rejected input. Specific validation errors
	// below wrap it, so handlers only need one branch for HTTP 400.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned when a login attempt fails,
	// deliberately without distinguishing unknown email from wrong
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken is returned when a session token cannot be validated.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrForbidden is returned when the caller's role does not permit the
	// operation.
	ErrForbidden = errors.New("operation not permitted for this role")

	// ErrResetTokenInvalid is returned when a password-reset token is
	// unknown or expired.
	ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
)
