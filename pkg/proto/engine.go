package proto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/airalarm/desklink/pkg/frame"
	"github.com/airalarm/desklink/pkg/transport"
)

// ConnState is the engine's connection state.
type ConnState int

const (
	// StateDisconnected means no handshake has completed.
	StateDisconnected ConnState = iota
	// StateHandshaking means a SYNC has been sent and the engine is
	// waiting for the acknowledge.
	StateHandshaking
	// StateConnected means the handshake completed and commands flow.
	StateConnected
	// StateDisconnecting means the engine is waiting to send DISC.
	StateDisconnecting
	// StateClosed means the link is torn down and the transport closed.
	StateClosed
)

// String implements fmt.Stringer.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateHandshaking:
		return "handshaking"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Engine runs the handshake state machine and frames commands over one
// exclusively owned transport.
//
// Engine is not safe for concurrent use; the session layer serializes
// all access on a single goroutine.
type Engine struct {
	conn  transport.Conn
	cfg   Config
	state ConnState
}

// New wraps an opened transport in an Engine.
func New(conn transport.Conn, opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{conn: conn, cfg: cfg}
}

// State returns the current connection state.
func (e *Engine) State() ConnState {
	return e.state
}

// Pending reports bytes the transport has already received.
func (e *Engine) Pending() (int, error) {
	return e.conn.Pending()
}

// Connect runs the SYNC/ACKN/SYNA handshake. On failure the engine
// returns to StateDisconnected and reports ErrHandshakeFailed; the
// caller is expected to retry, possibly on another candidate.
func (e *Engine) Connect() error {
	if e.state != StateDisconnected {
		return fmt.Errorf("connect in state %s", e.state)
	}
	e.state = StateHandshaking

	fail := func(cause error) error {
		e.state = StateDisconnected
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, cause)
	}

	// Stale bytes from a previous attempt would desynchronize the
	// exchange.
	if err := e.conn.ResetBuffers(); err != nil {
		return fail(err)
	}
	if err := e.write(CodeSync, ""); err != nil {
		return fail(err)
	}
	f, err := e.readFrame()
	if err != nil {
		// Includes short or garbled replies: the MCU is likely not
		// running the firmware, or nothing is listening at all.
		return fail(err)
	}
	if f.Header() != CodeAckn || f.Body() != "" {
		return fail(fmt.Errorf("unexpected reply %q", f.Header()))
	}
	if err := e.write(CodeSyna, ""); err != nil {
		return fail(err)
	}
	e.state = StateConnected
	glog.V(1).Info("handshake complete")
	return nil
}

// Send frames and writes one command.
func (e *Engine) Send(command, data string) error {
	if e.state != StateConnected {
		return fmt.Errorf("%w: state %s", ErrNotConnected, e.state)
	}
	return e.write(command, data)
}

// Receive reads one frame and returns it split into command and
// payload.
func (e *Engine) Receive() (Message, error) {
	if e.state != StateConnected {
		return Message{}, fmt.Errorf("%w: state %s", ErrNotConnected, e.state)
	}
	f, err := e.readFrame()
	if err != nil {
		return Message{}, err
	}
	return Message{Command: f.Header(), Payload: f.Body()}, nil
}

// AwaitPacing reads frames until a CTS pacing token arrives, handing
// every other frame to keep (which may be nil to discard them). The
// wait is bounded by the configured pacing timeout.
func (e *Engine) AwaitPacing(keep func(Message)) error {
	deadline := time.Now().Add(e.cfg.PacingTimeout)
	for {
		if time.Now().After(deadline) {
			return ErrPacingTimeout
		}
		f, err := e.readFrame()
		if err != nil {
			var lenErr *frame.FrameLengthError
			if errors.As(err, &lenErr) {
				// Nothing (or not enough) arrived in this window; the
				// MCU is busy. Keep waiting until the deadline.
				continue
			}
			return err
		}
		if f.Header() == CodeClearToSend {
			return nil
		}
		if keep != nil {
			keep(Message{Command: f.Header(), Payload: f.Body()})
		}
	}
}

// Disconnect waits for a pacing token, sends DISC and closes the
// transport. It runs at most once; further calls are no-ops. The
// transport is closed even when the disconnect handshake fails.
func (e *Engine) Disconnect() error {
	switch e.state {
	case StateClosed:
		return nil
	case StateDisconnected, StateHandshaking:
		e.state = StateClosed
		return e.conn.Close()
	}

	e.state = StateDisconnecting
	glog.V(1).Info("disconnecting")
	err := e.AwaitPacing(nil)
	if err == nil {
		err = e.write(CodeDisconnect, "")
	}
	e.state = StateClosed
	if cerr := e.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

func (e *Engine) write(command, data string) error {
	f, err := e.cfg.Codec.Encode(command, data)
	if err != nil {
		return err
	}
	glog.V(3).Infof("send %q (%d byte body)", command, len(data))
	return e.conn.Write(f.Bytes())
}

// readFrame assembles exactly one frame, retrying partial reads until
// the frame timeout. A slow MCU legitimately delivers a frame in
// several chunks.
func (e *Engine) readFrame() (frame.Frame, error) {
	buf := make([]byte, e.cfg.Codec.Length)
	deadline := time.Now().Add(e.cfg.FrameTimeout)
	n := 0
	for n < len(buf) {
		remain := time.Until(deadline)
		if remain <= 0 {
			break
		}
		r, err := e.conn.Read(buf[n:], remain)
		if err != nil {
			return frame.Frame{}, err
		}
		if r == 0 {
			// Read window elapsed with nothing received.
			break
		}
		n += r
	}
	f, err := e.cfg.Codec.Decode(buf[:n])
	if err != nil {
		return frame.Frame{}, err
	}
	glog.V(3).Infof("recv %q (%d byte body)", f.Header(), len(f.Body()))
	return f, nil
}
