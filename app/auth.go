package app

import "context"

// AuthService exchanges credentials for a bearer token.
type AuthService interface {
	// Login returns the session token for a valid email/password pair.
	Login(ctx context.Context, email, password string) (string, error)

	// Register creates an account. The full name is collected but not sent.
	Register(ctx context.Context, fullName, email, password string) error
}
