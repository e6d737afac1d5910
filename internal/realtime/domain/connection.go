package domain

import "github.com/google/uuid"

// ConnectionID opaque handle of one live bidirectional channel, created at
// handshake and invalid after close
type ConnectionID string

// Connection one live connection of an authenticated user. Send is its
// outbound FIFO queue; the writer pump of the connection drains it, so push
// order per connection matches enqueue order.
type Connection struct {
	ID     ConnectionID
	UserID string
	Send   chan []byte
}

// NewConnection create a Connection with a fresh id and a buffered queue
func NewConnection(userID string, buffer int) *Connection {
	if buffer <= 0 {
		buffer = 64
	}
	return &Connection{
		ID:     ConnectionID(uuid.New().String()),
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

// Push enqueue a payload without blocking. Returns false when the queue is
// full, the push is then dropped (at-most-once delivery).
func (c *Connection) Push(payload []byte) bool {
	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}
