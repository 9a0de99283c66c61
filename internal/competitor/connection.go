package competitor

import (
	"sync"
)

// lifecycleState is which of the three buckets described in §4.4 a
// connection currently belongs to.
type lifecycleState int

const (
	stateUnauthenticated lifecycleState = iota
	stateSpawning
	stateInGame
)

// connection is one AI client's TCP session plus the bookkeeping
// needed to route orchestrator events back to it and to decide what a
// disconnect means.
type connection struct {
	temporaryID int
	stream      *MessageStream
	send        chan outboundEnvelope
	closeOnce   sync.Once

	mu                sync.Mutex
	state             lifecycleState
	authPending       bool
	pendingDisconnect bool
	userID            int
	gameID            int
	inGamePlayerID    int
}

func newConnection(temporaryID int, stream *MessageStream) *connection {
	return &connection{
		temporaryID: temporaryID,
		stream:      stream,
		send:        make(chan outboundEnvelope, 32),
		state:       stateUnauthenticated,
	}
}

// writePump drains c.send into the wire until the channel is closed or
// a write fails, closing the socket on a failed write, mirroring the
// teacher's WritePump goroutine (network.go) adapted from WebSocket
// framing to line-delimited JSON.
func (c *connection) writePump() {
	for env := range c.send {
		if err := c.stream.WriteEnvelope(env); err != nil {
			c.stream.Close()
			return
		}
	}
}

// enqueue attempts a non-blocking send; a full outbound queue means a
// hopelessly slow client, so the message is dropped rather than
// blocking the orchestrator's event fan-out.
func (c *connection) enqueue(env outboundEnvelope) {
	select {
	case c.send <- env:
	default:
	}
}

func (c *connection) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}
