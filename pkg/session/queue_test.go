package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airalarm/desklink/pkg/proto"
)

func TestQueueFIFO(t *testing.T) {
	var q queue
	require.True(t, q.empty())
	require.Equal(t, 0, q.len())

	q.push(proto.Message{Command: "ECHO", Payload: "1"})
	q.push(proto.Message{Command: "ECHO", Payload: "2"})
	q.push(proto.Message{Command: "ECHO", Payload: "1"}) // duplicates kept
	require.Equal(t, 3, q.len())

	for _, want := range []string{"1", "2", "1"} {
		msg, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, want, msg.Payload)
	}

	_, ok := q.pop()
	require.False(t, ok)
	require.True(t, q.empty())

	// Reusable after being emptied.
	q.push(proto.Message{Command: "LED\x00"})
	msg, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, "LED\x00", msg.Command)
}
