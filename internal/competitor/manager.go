// Package competitor bridges line-delimited TCP JSON connections to
// the orchestrator, owning the three-state connection lifecycle
// described in spec.md §4.4. Grounded on the teacher's
// network.go Client/ReadPump/WritePump goroutine-pair-per-connection
// pattern (adapted from WebSocket framing to raw TCP line framing) and
// on original_source/tournament/src/connection.rs and competitor.rs
// for the lifecycle buckets themselves.
package competitor

import (
	"context"
	"encoding/json"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/bucket"
	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
)

// Manager owns every AI-client TCP connection and routes messages
// between them and the orchestrator/authentication manager.
type Manager struct {
	log zerolog.Logger

	mu              sync.Mutex
	unauthenticated *bucket.Bucket[*connection] // keyed by temporary id
	byUserID        map[int]*connection         // spawning + in-game

	toAuth         chan<- events.AuthenticationRequest
	toOrchestrator chan<- events.CompetitorEvent
}

// NewManager creates a Manager. toAuth receives first-message
// authentication requests; toOrchestrator receives in-game actions and
// disconnects.
func NewManager(toAuth chan<- events.AuthenticationRequest, toOrchestrator chan<- events.CompetitorEvent, log zerolog.Logger) *Manager {
	return &Manager{
		log:             log.With().Str("component", "competitor").Logger(),
		unauthenticated: bucket.New[*connection](),
		byUserID:        make(map[int]*connection),
		toAuth:          toAuth,
		toOrchestrator:  toOrchestrator,
	}
}

// ListenAndServe accepts connections on addr until ctx is cancelled.
func (m *Manager) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	m.log.Info().Str("addr", addr).Msg("competitor TCP listener started")
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go m.handleConn(conn)
	}
}

func (m *Manager) handleConn(netConn net.Conn) {
	stream := NewMessageStream(netConn, m.log)
	c := newConnection(0, stream)

	m.mu.Lock()
	c.temporaryID = m.unauthenticated.Add(c)
	m.mu.Unlock()

	metrics.ConnectedCompetitors.Inc()
	go c.writePump()

	defer func() {
		netConn.Close()
		metrics.ConnectedCompetitors.Dec()
	}()

	for {
		line, err := stream.ReadLine()
		if err != nil {
			m.handleDisconnect(c)
			return
		}
		m.dispatch(c, line)
	}
}

func (m *Manager) dispatch(c *connection, line []byte) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	switch state {
	case stateUnauthenticated:
		m.handleUnauthenticatedMessage(c, line)
	case stateSpawning:
		m.log.Info().Int("temporary_id", c.temporaryID).Msg("message ignored while spawning")
	case stateInGame:
		m.handleActionMessage(c, line)
	}
}

func (m *Manager) handleUnauthenticatedMessage(c *connection, line []byte) {
	c.mu.Lock()
	if c.authPending {
		c.mu.Unlock()
		m.log.Info().Int("temporary_id", c.temporaryID).Msg("ignoring message while authentication pending")
		return
	}

	var msg authMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		c.mu.Unlock()
		m.log.Warn().Int("temporary_id", c.temporaryID).Err(err).Msg("malformed authentication message")
		return
	}
	c.authPending = true
	c.mu.Unlock()

	m.toAuth <- events.AuthenticationRequest{Username: msg.Username, Code: msg.Code, TemporaryID: c.temporaryID}
}

func (m *Manager) handleActionMessage(c *connection, line []byte) {
	var msg actionMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		m.log.Warn().Int("user_id", c.userID).Err(err).Msg("malformed action message")
		return
	}
	action, ok := actionFromWire(msg.Action)
	if !ok {
		m.log.Warn().Int("user_id", c.userID).Str("action", msg.Action).Msg("invalid action character")
		return
	}
	m.toOrchestrator <- events.Action{UserID: c.userID, Action: action, Tick: msg.Tick}
}

func (m *Manager) handleDisconnect(c *connection) {
	c.mu.Lock()
	switch {
	case c.authPending:
		// Defer teardown until the authentication outcome resolves
		// (§7): a transient read EOF mid-authentication must not
		// orphan the pending request.
		c.pendingDisconnect = true
		c.mu.Unlock()
		return
	case c.state == stateInGame:
		userID, gameID, inGamePlayerID := c.userID, c.gameID, c.inGamePlayerID
		c.mu.Unlock()
		m.removeByUserID(userID)
		m.toOrchestrator <- events.PlayerDisconnected{UserID: userID, GameID: gameID, InGamePlayerID: inGamePlayerID}
	case c.state == stateSpawning:
		userID := c.userID
		c.mu.Unlock()
		m.removeByUserID(userID)
	default:
		c.mu.Unlock()
		m.removeUnauthenticated(c.temporaryID)
	}
	c.closeSend()
}

func (m *Manager) removeUnauthenticated(temporaryID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unauthenticated.Remove(temporaryID)
}

func (m *Manager) removeByUserID(userID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUserID, userID)
}

// HandleAuthConfirmed moves a connection from unauthenticated to
// spawning; nothing is sent to the client until it spawns. If a
// disconnect was deferred
// while authentication was pending, the connection is torn down
// immediately instead.
func (m *Manager) HandleAuthConfirmed(ev events.AuthConfirmed) {
	m.mu.Lock()
	c, ok := m.unauthenticated.Remove(ev.TemporaryID)
	m.mu.Unlock()
	if !ok {
		return
	}

	c.mu.Lock()
	c.authPending = false
	c.userID = ev.UserID
	c.state = stateSpawning
	deferred := c.pendingDisconnect
	c.mu.Unlock()

	if deferred {
		// The connection dropped while authentication was pending; now
		// that it resolved, the connection is just a spawning entry
		// with no game assigned yet, so there is nothing to notify the
		// orchestrator about beyond forgetting it here (§7).
		c.closeSend()
		return
	}

	m.mu.Lock()
	m.byUserID[ev.UserID] = c
	m.mu.Unlock()
}

// HandleAuthRejected queues the authentication failure for the
// connection and closes its outbound queue, which ends its writer. The
// TCP socket itself is not closed here; it stays open until the client
// disconnects.
func (m *Manager) HandleAuthRejected(ev events.AuthRejected) {
	m.mu.Lock()
	c, ok := m.unauthenticated.Remove(ev.TemporaryID)
	m.mu.Unlock()
	if !ok {
		return
	}
	c.enqueue(outboundEnvelope{Error: ev.Reason.Message()})
	c.closeSend()
}

// HandlePlayerSpawned moves a spawning connection into the in-game
// bucket and notifies the client.
func (m *Manager) HandlePlayerSpawned(ev events.PlayerSpawned) {
	m.mu.Lock()
	c, ok := m.byUserID[ev.UserID]
	m.mu.Unlock()
	if !ok {
		return
	}

	c.mu.Lock()
	c.state = stateInGame
	c.gameID = ev.GameID
	c.inGamePlayerID = ev.InGamePlayerID
	c.mu.Unlock()

	c.enqueue(outboundEnvelope{Spawned: &spawnedBody{GameID: ev.GameID}})
}

// HandleProcessTick builds and sends every in-game player's egocentric
// view for this tick.
func (m *Manager) HandleProcessTick(ev events.ProcessTick) {
	for inGamePlayerID, userID := range ev.IDMap {
		m.mu.Lock()
		c, ok := m.byUserID[userID]
		m.mu.Unlock()
		if !ok {
			continue
		}
		tickMsg, ok := buildTickMessage(ev.GameData, inGamePlayerID, ev.Tick)
		if !ok {
			continue
		}
		c.enqueue(outboundEnvelope{Tick: &tickMsg})
	}
}

// HandlePlayerDied queues the death notice for the connection, forgets
// it, and closes its outbound queue. The TCP socket itself is not
// closed here; it stays open until the client disconnects.
func (m *Manager) HandlePlayerDied(ev events.PlayerDied) {
	m.mu.Lock()
	c, ok := m.byUserID[ev.UserID]
	delete(m.byUserID, ev.UserID)
	m.mu.Unlock()
	if !ok {
		return
	}
	c.enqueue(outboundEnvelope{Died: &diedBody{FinalScore: ev.FinalScore}})
	c.closeSend()
}
