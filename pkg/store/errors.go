package store

import "errors"

var (
	// ErrPolicyNotFound is returned when no policy exists for the given id.
	ErrPolicyNotFound = errors.New("policy not found")
)
