package auth

import "errors"

var (
	// ErrEmptySecret is returned when the service is created without a signing secret.
	ErrEmptySecret = errors.New("token secret can not be empty")

	// ErrInvalidCredentials is returned when email or password do not match.
	// Both cases share one error so callers can not probe for accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoToken is returned when the request carries no token.
	ErrNoToken = errors.New("no token provided")

	// ErrInvalidToken is returned when the token is malformed, expired or wrongly signed.
	ErrInvalidToken = errors.New("invalid token")
)
