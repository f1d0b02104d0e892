package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateUser      = errors.New("user email already exists")
	ErrUnknownRole        = errors.New("unknown role")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMFARequired        = errors.New("mfa code required")
	ErrMFAInvalid         = errors.New("invalid mfa code")
	ErrMFAUnavailable     = errors.New("mfa requires a data encryption key")
	ErrMFANotSetUp        = errors.New("mfa setup required")
)
