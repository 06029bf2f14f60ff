package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken occurs when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already taken")
	// ErrSessionExpired occurs when a bearer token no longer has a live session.
	ErrSessionExpired = errors.New("session expired")
)
