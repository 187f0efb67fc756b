package user

import "errors"

var (
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrWeakPassword         = errors.New("password must be at least 6 characters")
	ErrEmailTaken           = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrHostedAuthDisabled   = errors.New("external sign-in is not configured")
	ErrInvalidIDToken       = errors.New("external sign-in token is invalid")
	ErrInvalidName          = errors.New("please enter your name")
	ErrInvalidRole          = errors.New("role is not allowed")
	ErrForbidden            = errors.New("only administrators can do this")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidResetToken    = errors.New("reset link is invalid or has expired")
	ErrNoLocalPassword      = errors.New("this account signs in with an external provider")
	ErrInvalidVolunteerHour = errors.New("hours must be positive")
)
