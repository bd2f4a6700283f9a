package proto

import "errors"

var (
	// ErrHandshakeFailed indicates the connect handshake did not
	// complete. This is not fatal; callers retry the next candidate.
	ErrHandshakeFailed = errors.New("handshake failed")
	// ErrPacingTimeout indicates no pacing token arrived within the
	// configured deadline.
	ErrPacingTimeout = errors.New("timed out waiting for pacing token")
	// ErrNotConnected indicates a command operation outside the
	// Connected state.
	ErrNotConnected = errors.New("not connected")
	// ErrNoConnection indicates every transport candidate was tried and
	// none completed a handshake.
	ErrNoConnection = errors.New("no connection could be established")
)
