package transport

import (
	"errors"
	"time"
)

var (
	// ErrUnavailable indicates the device could not be opened.
	ErrUnavailable = errors.New("transport unavailable")
	// ErrClosed indicates an operation on a closed transport.
	ErrClosed = errors.New("transport closed")
)

// Conn is a byte channel bound to one device path.
type Conn interface {
	// Open binds the channel. Failure is reported as ErrUnavailable.
	Open() error
	// Close releases the channel. Close of an unopened Conn is a no-op.
	Close() error
	// Write sends all of p before returning.
	Write(p []byte) error
	// Read fills p with up to len(p) received bytes, waiting at most
	// timeout for the first of them. It returns 0 with a nil error when
	// nothing arrived in time; short reads are normal.
	Read(p []byte, timeout time.Duration) (n int, err error)
	// Pending reports how many received bytes can be read without
	// waiting.
	Pending() (int, error)
	// ResetBuffers discards unread and unsent bytes.
	ResetBuffers() error
}

// Opener creates an unopened Conn bound to a device path.
type Opener func(path string) Conn
