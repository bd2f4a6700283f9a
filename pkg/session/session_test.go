package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/airalarm/desklink/pkg/frame"
	"github.com/airalarm/desklink/pkg/proto"
	"github.com/airalarm/desklink/pkg/transport"
)

// pumpConn simulates the MCU side of a session. Frames in available
// count as already-delivered bytes (the drain phase sees them through
// Pending); frames in scripted only arrive when a blocking read asks
// for them.
type pumpConn struct {
	available [][]byte
	scripted  [][]byte
	writes    [][]byte
	closed    bool
}

var _ transport.Conn = (*pumpConn)(nil)

func (c *pumpConn) Open() error  { return nil }
func (c *pumpConn) Close() error { c.closed = true; return nil }

func (c *pumpConn) Write(p []byte) error {
	c.writes = append(c.writes, append([]byte(nil), p...))
	return nil
}

func (c *pumpConn) Read(p []byte, timeout time.Duration) (int, error) {
	src := &c.available
	if len(*src) == 0 {
		src = &c.scripted
	}
	if len(*src) == 0 {
		return 0, nil
	}
	n := copy(p, (*src)[0])
	if n == len((*src)[0]) {
		*src = (*src)[1:]
	} else {
		(*src)[0] = (*src)[0][n:]
	}
	return n, nil
}

func (c *pumpConn) Pending() (int, error) {
	total := 0
	for _, f := range c.available {
		total += len(f)
	}
	return total, nil
}

func (c *pumpConn) ResetBuffers() error { return nil }

func rawFrame(t *testing.T, header, body string) []byte {
	t.Helper()
	f, err := frame.Encode(header, body)
	require.NoError(t, err)
	return f.Bytes()
}

func newSession(t *testing.T, conn *pumpConn) *Session {
	t.Helper()
	// available models frames delivered after the handshake, so hold
	// them back until Connect has consumed the scripted ACKN.
	available := conn.available
	conn.available = nil
	conn.scripted = append([][]byte{rawFrame(t, proto.CodeAckn, "")}, conn.scripted...)
	engine := proto.New(conn,
		proto.WithFrameTimeout(20*time.Millisecond),
		proto.WithPacingTimeout(50*time.Millisecond))
	require.NoError(t, engine.Connect())
	conn.available = available
	conn.writes = nil
	return New(engine)
}

func TestPumpPacedSend(t *testing.T) {
	conn := &pumpConn{scripted: [][]byte{
		rawFrame(t, proto.CodeClearToSend, ""),
		rawFrame(t, "STDT", "24;01;01;00;00;10"),
		rawFrame(t, proto.CodeClearToSend, ""),
		rawFrame(t, "STDT", "24;01;01;00;00;11"),
		rawFrame(t, proto.CodeClearToSend, ""),
		rawFrame(t, "STDT", "24;01;01;00;00;12"),
	}}
	s := newSession(t, conn)

	s.EnqueueOutbound(proto.CodeAddEvent, "first")
	s.EnqueueOutbound(proto.CodeAddEvent, "second")
	s.EnqueueOutbound(proto.CodeSchedule, "")
	require.Equal(t, 3, s.PendingOutbound())

	require.NoError(t, s.Pump(context.Background()))

	// One send per pacing token, in enqueue order, nothing extra.
	require.Equal(t, 0, s.PendingOutbound())
	require.Equal(t, [][]byte{
		rawFrame(t, proto.CodeAddEvent, "first"),
		rawFrame(t, proto.CodeAddEvent, "second"),
		rawFrame(t, proto.CodeSchedule, ""),
	}, conn.writes)

	// Frames received while waiting for tokens were kept.
	msg, ok := s.DequeueInbound()
	require.True(t, ok)
	require.Equal(t, proto.Message{Command: "STDT", Payload: "24;01;01;00;00;10"}, msg)
	msg, ok = s.DequeueInbound()
	require.True(t, ok)
	require.Equal(t, "24;01;01;00;00;11", msg.Payload)
}

func TestPumpDrain(t *testing.T) {
	conn := &pumpConn{available: [][]byte{
		rawFrame(t, proto.CodeClearToSend, ""),
		rawFrame(t, "GTDT", "24;01;01;00;00;10"),
		rawFrame(t, proto.CodeClearToSend, ""),
	}}
	s := newSession(t, conn)

	require.NoError(t, s.Pump(context.Background()))

	// Stale pacing tokens are dropped, real messages kept in order.
	require.Equal(t, 1, s.PendingInbound())
	msg, ok := s.DequeueInbound()
	require.True(t, ok)
	require.Equal(t, "GTDT", msg.Command)
	_, ok = s.DequeueInbound()
	require.False(t, ok)
	require.Empty(t, conn.writes)
}

func TestPumpInterleave(t *testing.T) {
	conn := &pumpConn{
		available: [][]byte{rawFrame(t, "ECHO", "already here")},
		scripted: [][]byte{
			rawFrame(t, "ECHO", "while waiting"),
			rawFrame(t, proto.CodeClearToSend, ""),
		},
	}
	s := newSession(t, conn)
	s.EnqueueOutbound(proto.CodeEcho, "ping")

	require.NoError(t, s.Pump(context.Background()))

	msg, _ := s.DequeueInbound()
	require.Equal(t, "already here", msg.Payload)
	msg, _ = s.DequeueInbound()
	require.Equal(t, "while waiting", msg.Payload)
	require.Len(t, conn.writes, 1)
}

func TestPumpTimeout(t *testing.T) {
	conn := &pumpConn{}
	s := newSession(t, conn)
	s.EnqueueOutbound(proto.CodeEcho, "ping")

	err := s.Pump(context.Background())
	require.ErrorIs(t, err, ErrPumpTimeout)
	// The unsent message survives for a retry.
	require.Equal(t, 1, s.PendingOutbound())
}

func TestPumpGarbledDrain(t *testing.T) {
	conn := &pumpConn{available: [][]byte{[]byte("garbage")}}
	s := newSession(t, conn)

	var lenErr *frame.FrameLengthError
	require.ErrorAs(t, s.Pump(context.Background()), &lenErr)
}

func TestPumpCancelled(t *testing.T) {
	conn := &pumpConn{scripted: [][]byte{rawFrame(t, proto.CodeClearToSend, "")}}
	s := newSession(t, conn)
	s.EnqueueOutbound(proto.CodeEcho, "ping")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Pump(ctx), context.Canceled)

	// Teardown still runs after an abort.
	require.NoError(t, s.Close())
	require.True(t, conn.closed)
	require.Equal(t, [][]byte{rawFrame(t, proto.CodeDisconnect, "")}, conn.writes)
}

func TestCloseIdempotent(t *testing.T) {
	conn := &pumpConn{scripted: [][]byte{rawFrame(t, proto.CodeClearToSend, "")}}
	s := newSession(t, conn)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Len(t, conn.writes, 1)
	require.ErrorIs(t, s.Pump(context.Background()), ErrClosed)
}

func TestSessionsOwnQueues(t *testing.T) {
	a := newSession(t, &pumpConn{})
	b := newSession(t, &pumpConn{})

	a.EnqueueOutbound(proto.CodeEcho, "only in a")
	require.Equal(t, 1, a.PendingOutbound())
	require.Equal(t, 0, b.PendingOutbound())
}
