// Package session provides flow-controlled message queueing over a
// connected protocol engine.
package session

// The MCU paces the link: it emits one CTS token whenever its receive
// buffer can take another frame, and the session sends exactly one
// queued message per token. There is never more than one outstanding
// unacknowledged outbound frame.
//
// The design is single-threaded and cooperative. The application
// enqueues messages and calls Pump once per tick from the same
// goroutine; only Pump touches the transport, so the queues need no
// locking. Moving I/O to another goroutine would require guarding the
// queues or replacing them with channels.
