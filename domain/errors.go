package domain

import "errors"

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoCredential indicates a call that needs a session was made without one.
	ErrNoCredential = errors.New("no credential")

	// ErrSchemaMismatch indicates a response that does not match the endpoint's contract.
	ErrSchemaMismatch = errors.New("response schema mismatch")

	// ErrEmptyField indicates a required form field was left blank.
	ErrEmptyField = errors.New("required field is empty")
)
