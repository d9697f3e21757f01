package service

import "errors"

// Sentinel error kinds for the session service.
var (
	// ErrNoSession means a request arrived before a receipt was uploaded or
	// after a reset.
	ErrNoSession = errors.New("no active session")
)
