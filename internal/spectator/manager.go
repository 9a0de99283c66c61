// Package spectator implements the read-only WebSocket broadcast side
// of the tournament: one compact text frame per tick-delta, per opened
// or closed game, and a periodic leaderboard snapshot. Grounded on
// original_source/tournament/src/spectator.rs's Manager/Spectator
// split, adapted from a tokio broadcast channel fan-out to Go
// per-client goroutines each draining their own buffered channel (the
// teacher's network.go Client/WritePump shape, reused here read-only).
package spectator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/events"
	"github.com/louisdewar/pacman-tournament/internal/metrics"
	"github.com/louisdewar/pacman-tournament/internal/model"
	"github.com/louisdewar/pacman-tournament/internal/userstore"
)

const leaderboardInterval = 3 * time.Second

// idMapEntry is what the broadcaster remembers about one live player,
// keyed by in-game id within a single game's state.
type idMapEntry struct {
	userID        int
	username      string
	prevHighScore uint32
}

// leaderboardEntry is the wire-ready shape of one top_n_leaderboard row.
type leaderboardEntry struct {
	id        int
	username  string
	highScore uint32
}

// gameState is the broadcaster's per-game bookkeeping (spec §4.6).
// lastData is always a value obtained via GameData.Snapshot(), never
// the orchestrator's live tick-local pointer.
type gameState struct {
	idMap    map[int]idMapEntry
	lastData *model.GameData
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client is one connected spectator.
type client struct {
	id     string
	filter ListenFilter
	conn   *websocket.Conn
	send   chan string
}

func (c *client) writePump() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			return
		}
	}
}

func (c *client) enqueue(msg string) {
	select {
	case c.send <- msg:
	default:
	}
}

// Manager owns every open game's broadcaster state and every connected
// spectator.
type Manager struct {
	log   zerolog.Logger
	store userstore.Store

	mu      sync.Mutex
	games   map[int]*gameState
	clients map[string]*client

	inbox <-chan events.SpectatorEvent
}

// New creates a Manager. inbox is fed exclusively by the orchestrator.
func New(store userstore.Store, inbox <-chan events.SpectatorEvent, log zerolog.Logger) *Manager {
	return &Manager{
		log:     log.With().Str("component", "spectator").Logger(),
		store:   store,
		games:   make(map[int]*gameState),
		clients: make(map[string]*client),
		inbox:   inbox,
	}
}

// Run drains the orchestrator's event channel and polls the
// leaderboard every 3s, until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(leaderboardInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-m.inbox:
			if !ok {
				return
			}
			m.handleEvent(ev)
		case <-ticker.C:
			m.broadcastLeaderboard(ctx)
		}
	}
}

func (m *Manager) handleEvent(ev events.SpectatorEvent) {
	switch e := ev.(type) {
	case events.GameOpened:
		m.handleGameOpened(e)
	case events.GameClosed:
		m.handleGameClosed(e)
	case events.SpectatorPlayerSpawned:
		m.handlePlayerSpawned(e)
	case events.SpectatorPlayerLeft:
		m.handlePlayerLeft(e)
	case events.Tick:
		m.handleTick(e)
	}
}

func (m *Manager) handleGameOpened(e events.GameOpened) {
	m.mu.Lock()
	m.games[e.GameID] = &gameState{idMap: make(map[int]idMapEntry), lastData: e.GameData}
	m.mu.Unlock()

	msg := serializeInitial(buildInitialMessage(e.GameID, e.GameData, nil))
	m.broadcast(e.GameID, msg)
}

func (m *Manager) handleGameClosed(e events.GameClosed) {
	m.mu.Lock()
	delete(m.games, e.GameID)
	m.mu.Unlock()

	m.broadcast(e.GameID, serializeGameClosed(e.GameID))
}

func (m *Manager) handlePlayerSpawned(e events.SpectatorPlayerSpawned) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[e.GameID]
	if !ok {
		return
	}
	g.idMap[e.InGamePlayerID] = idMapEntry{userID: e.UserID, username: e.Username, prevHighScore: e.PrevHighScore}
}

func (m *Manager) handlePlayerLeft(e events.SpectatorPlayerLeft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[e.GameID]
	if !ok {
		return
	}
	delete(g.idMap, e.InGamePlayerID)
}

func (m *Manager) handleTick(e events.Tick) {
	m.mu.Lock()
	g, ok := m.games[e.GameID]
	if !ok {
		m.mu.Unlock()
		return
	}
	old := g.lastData
	idMapCopy := make(map[int]idMapEntry, len(g.idMap))
	for k, v := range g.idMap {
		idMapCopy[k] = v
	}
	g.lastData = e.GameData
	m.mu.Unlock()

	delta := computeDelta(e.GameID, old, e.GameData, idMapCopy)
	m.broadcast(e.GameID, serializeDelta(delta))
}

func (m *Manager) broadcastLeaderboard(ctx context.Context) {
	rows, err := m.store.TopNLeaderboard(ctx, 10)
	if err != nil {
		m.log.Error().Err(err).Msg("leaderboard query failed")
		return
	}
	entries := make([]leaderboardEntry, len(rows))
	for i, r := range rows {
		entries[i] = leaderboardEntry{id: r.ID, username: r.Username, highScore: r.HighScore}
	}
	msg := serializeLeaderboard(entries)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		c.enqueue(msg)
	}
}

// broadcast sends msg to every connected client whose filter matches
// gameID.
func (m *Manager) broadcast(gameID int, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.filter.Matches(gameID) {
			c.enqueue(msg)
		}
	}
}

// ListenAndServe runs the spectator WebSocket server until ctx is
// cancelled.
func (m *Manager) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", m.handleWebSocket)

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	m.log.Info().Str("addr", addr).Msg("spectator WebSocket listener started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (m *Manager) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn().Err(err).Msg("spectator websocket upgrade failed")
		return
	}

	filter := filterFromQuery(r.URL.Query().Get("game_id"))
	c := &client{id: uuid.NewString(), filter: filter, conn: conn, send: make(chan string, 16)}

	m.mu.Lock()
	m.clients[c.id] = c
	m.mu.Unlock()
	metrics.ConnectedSpectators.Inc()

	go c.writePump()
	m.sendInitialSnapshots(c)

	defer func() {
		m.mu.Lock()
		delete(m.clients, c.id)
		m.mu.Unlock()
		close(c.send)
		conn.Close()
		metrics.ConnectedSpectators.Dec()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) sendInitialSnapshots(c *client) {
	m.mu.Lock()
	type snapshot struct {
		gameID int
		data   *model.GameData
		idMap  map[int]idMapEntry
	}
	var snapshots []snapshot
	for gameID, g := range m.games {
		if !c.filter.Matches(gameID) {
			continue
		}
		idMapCopy := make(map[int]idMapEntry, len(g.idMap))
		for k, v := range g.idMap {
			idMapCopy[k] = v
		}
		snapshots = append(snapshots, snapshot{gameID: gameID, data: g.lastData, idMap: idMapCopy})
	}
	m.mu.Unlock()

	for _, s := range snapshots {
		c.enqueue(serializeInitial(buildInitialMessage(s.gameID, s.data, s.idMap)))
	}
}
