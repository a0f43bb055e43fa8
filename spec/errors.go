package spec

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")

	// Router failures. Callers never branch on these; they exist so diagnostics
	// can tell a missing binary from a slow or misbehaving one.
	ErrRouterUnavailable = errors.New("router unavailable")
	ErrRouterTimeout     = errors.New("router timed out")
	ErrRouterExit        = errors.New("router exited with error")
	ErrRouterOutput      = errors.New("router returned malformed output")

	ErrPersistFailed = errors.New("session state not persisted")
)
