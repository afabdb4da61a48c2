package auth

import "errors"

// ErrTokenRequired is returned when an operation needs a bearer credential
// and none is present. Operations must fail with this before any network call.
var ErrTokenRequired = errors.New("authentication token required")

// TokenSource provides the current bearer credential, or none.
type TokenSource interface {
	// Token returns the current credential and whether one is present.
	Token() (string, bool)
}

// StaticToken is a TokenSource backed by a fixed string. An empty string
// means no credential.
type StaticToken string

func (t StaticToken) Token() (string, bool) {
	return string(t), t != ""
}
