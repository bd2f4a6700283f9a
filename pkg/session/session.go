package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/airalarm/desklink/pkg/proto"
)

var (
	// ErrClosed indicates an operation on a closed session.
	ErrClosed = errors.New("session closed")
	// ErrPumpTimeout indicates the MCU produced no pacing token while
	// outbound messages were waiting.
	ErrPumpTimeout = errors.New("pump timed out waiting for pacing token")
)

// Session owns one connected engine and a pair of message queues, and
// runs the receiver-paced pump between them.
//
// Session is not safe for concurrent use (see the package comment).
type Session struct {
	engine *proto.Engine

	// Each session constructs its own queues; they are never shared
	// between instances.
	inbound  queue
	outbound queue

	closed bool
}

// New wraps a connected engine in a Session.
func New(engine *proto.Engine) *Session {
	return &Session{engine: engine}
}

// EnqueueOutbound appends a message for transmission. It never blocks
// and never fails; delivery happens on a later Pump.
func (s *Session) EnqueueOutbound(command, payload string) {
	s.outbound.push(proto.Message{Command: command, Payload: payload})
}

// DequeueInbound pops the oldest received message, if any.
func (s *Session) DequeueInbound() (proto.Message, bool) {
	return s.inbound.pop()
}

// PendingInbound returns the number of received messages awaiting the
// application.
func (s *Session) PendingInbound() int {
	return s.inbound.len()
}

// PendingOutbound returns the number of messages not yet transmitted.
func (s *Session) PendingOutbound() int {
	return s.outbound.len()
}

// Pump runs one tick of the session:
//
//  1. Drain: frames the MCU already delivered are read off the
//     transport. Pacing tokens that arrived while the host had nothing
//     to send are stale and dropped; everything else is queued inbound
//     in arrival order.
//  2. Send: while outbound messages wait, block until the next pacing
//     token (inbound frames received meanwhile are queued, not lost)
//     and transmit exactly one message per token, in FIFO order.
func (s *Session) Pump(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pending, err := s.engine.Pending()
		if err != nil {
			return err
		}
		if pending == 0 {
			break
		}
		msg, err := s.engine.Receive()
		if err != nil {
			return fmt.Errorf("drain: %w", err)
		}
		if msg.Command == proto.CodeClearToSend {
			continue
		}
		s.inbound.push(msg)
	}

	for !s.outbound.empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.engine.AwaitPacing(s.inbound.push); err != nil {
			if errors.Is(err, proto.ErrPacingTimeout) {
				return fmt.Errorf("%w: %d messages still queued", ErrPumpTimeout, s.outbound.len())
			}
			return err
		}
		msg, _ := s.outbound.pop()
		glog.V(2).Infof("sending %s %q", msg.Command, msg.Payload)
		if err := s.engine.Send(msg.Command, msg.Payload); err != nil {
			return err
		}
	}
	return nil
}

// Close runs the disconnect handshake and releases the transport. Only
// the first call does work; a Session must be torn down on every exit
// path, including interrupted ones, so callers defer Close
// unconditionally.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.engine.Disconnect()
}
