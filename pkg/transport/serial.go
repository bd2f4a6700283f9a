package transport

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"
)

// Line parameters programmed into the MCU firmware. Changing these on
// one side only breaks the link silently, so they are not configurable.
const (
	BaudRate = 9600
	DataBits = 7

	// DefaultReadTimeout bounds a single read attempt.
	DefaultReadTimeout = 700 * time.Millisecond
	// DefaultWriteTimeout bounds a full frame write.
	DefaultWriteTimeout = time.Second
)

// probeChunk is the read size used when probing for pending bytes.
const probeChunk = 256

// SerialConn implements Conn over a serial device using go.bug.st/serial.
type SerialConn struct {
	path         string
	writeTimeout time.Duration

	port    serial.Port
	pending []byte
}

// NewSerial creates an unopened SerialConn bound to a device path.
func NewSerial(path string) *SerialConn {
	return &SerialConn{path: path, writeTimeout: DefaultWriteTimeout}
}

// OpenSerial adapts NewSerial to the Opener signature.
func OpenSerial(path string) Conn {
	return NewSerial(path)
}

// Path returns the bound device path.
func (c *SerialConn) Path() string {
	return c.path
}

// Open implements Conn.
func (c *SerialConn) Open() error {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.TwoStopBits,
	}
	port, err := serial.Open(c.path, mode)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, c.path, err)
	}
	glog.V(2).Infof("opened %s (%d baud, 7N2)", c.path, BaudRate)
	c.port = port
	c.pending = nil
	return nil
}

// Close implements Conn.
func (c *SerialConn) Close() error {
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	c.pending = nil
	glog.V(2).Infof("closed %s", c.path)
	return err
}

// Write implements Conn. The write deadline is enforced host-side; the
// underlying port write is blocking.
func (c *SerialConn) Write(p []byte) error {
	if c.port == nil {
		return ErrClosed
	}
	deadline := time.Now().Add(c.writeTimeout)
	for len(p) > 0 {
		n, err := c.port.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
		if len(p) > 0 && time.Now().After(deadline) {
			return fmt.Errorf("write timed out on %s", c.path)
		}
	}
	return c.port.Drain()
}

// Read implements Conn. Bytes buffered by Pending are consumed first.
func (c *SerialConn) Read(p []byte, timeout time.Duration) (int, error) {
	if c.port == nil {
		return 0, ErrClosed
	}
	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	if n == len(p) {
		return n, nil
	}
	if err := c.port.SetReadTimeout(timeout); err != nil {
		return n, err
	}
	r, err := c.port.Read(p[n:])
	return n + r, err
}

// Pending implements Conn. A zero read timeout makes the probe return
// immediately with whatever the driver has buffered.
func (c *SerialConn) Pending() (int, error) {
	if c.port == nil {
		return 0, ErrClosed
	}
	if err := c.port.SetReadTimeout(0); err != nil {
		return 0, err
	}
	buf := make([]byte, probeChunk)
	for {
		n, err := c.port.Read(buf)
		if err != nil {
			return len(c.pending), err
		}
		if n > 0 {
			c.pending = append(c.pending, buf[:n]...)
		}
		if n < len(buf) {
			return len(c.pending), nil
		}
	}
}

// ResetBuffers implements Conn.
func (c *SerialConn) ResetBuffers() error {
	if c.port == nil {
		return ErrClosed
	}
	c.pending = nil
	if err := c.port.ResetInputBuffer(); err != nil {
		return err
	}
	return c.port.ResetOutputBuffer()
}
