// Package core holds the transport-agnostic session and room model. It never
// touches adapter-owned resources; connections are closed by whoever opened
// them.
package core

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SignalConnection abstracts the messaging transport for one session.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues a frame without blocking. It returns an error when the
	// connection is closed or its buffer is full; delivery is best-effort.
	TrySend(Frame) error
	Close()
}
