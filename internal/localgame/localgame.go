// Package localgame wraps a single running game (model.Model) with the
// bookkeeping the orchestrator needs to talk about it in terms of
// global user ids instead of per-game entity ids.
package localgame

import (
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
)

// MaxPlayers is the most players one game instance will host at once
// (spec §4.3).
const MaxPlayers = 8

// Manager owns one model.Model plus the in-game-id -> user-id map that
// is only populated once a player has actually been spawned. Grounded
// on original_source/tournament/src/game.rs's LocalManager.
type Manager struct {
	model *model.Model
	idMap map[int]int // in-game player id -> user id
}

// DesiredMobCount is the target mob population for every game instance.
const DesiredMobCount = 8

// New creates a Manager running a fresh game over m.
func New(m *gamemap.Map) *Manager {
	return &Manager{
		model: model.New(m, DesiredMobCount),
		idMap: make(map[int]int),
	}
}

// Data exposes the underlying game state for read-only snapshotting
// (e.g. the spectator broadcaster's GameOpened payload).
func (g *Manager) Data() *model.GameData { return &g.model.Data }

// Tick returns the model's current tick counter.
func (g *Manager) Tick() uint64 { return g.model.Tick() }

// TrySpawnPlayer enqueues userID for spawning under username if the
// game has room (fewer than MaxPlayers live players). Returns false
// (without enqueuing) once the game is full. Grounded directly on
// LocalManager::try_spawn_player in original_source/tournament/src/game.rs,
// which gates on live player count only, not the spawn queue.
func (g *Manager) TrySpawnPlayer(userID int, username string) bool {
	if g.model.Data.Players.Len() >= MaxPlayers {
		return false
	}
	g.model.AddClient(userID, username)
	return true
}

// RemoveClient forcibly removes a live player from the game, e.g. on
// disconnect.
func (g *Manager) RemoveClient(inGamePlayerID int) {
	g.model.RemoveClient(inGamePlayerID)
	delete(g.idMap, inGamePlayerID)
}

// PlayAction forwards a queued action to the in-game player.
func (g *Manager) PlayAction(inGamePlayerID int, action model.Action, tick uint64) {
	g.model.PlayerAction(inGamePlayerID, action, tick)
}

// SimulateTick runs one simulation step and rewrites every
// PlayerSpawned / PlayerDied event's in-game id into the corresponding
// user id before handing it to sink. PlayerSpawned additionally
// populates idMap; PlayerDied removes from it.
func (g *Manager) SimulateTick(sink EventSink) {
	raw := &model.SliceSink{}
	g.model.SimulateTick(raw)

	for _, ev := range raw.Events {
		switch e := ev.(type) {
		case model.PlayerSpawned:
			// TemporaryID here was, by construction of AddClient above, the
			// caller-supplied user id, not a connection-scoped temporary id;
			// the name is inherited from model's more general spawn queue.
			userID := e.TemporaryID
			g.idMap[e.InGameID] = userID
			sink.Emit(PlayerSpawned{UserID: userID, InGamePlayerID: e.InGameID})
		case model.ProcessTick:
			sink.Emit(ProcessTick{GameData: e.GameData, Tick: e.Tick, IDMap: g.idMap, Duration: e.Duration})
		case model.PlayerDied:
			userID, ok := g.idMap[e.PlayerID]
			if !ok {
				continue
			}
			delete(g.idMap, e.PlayerID)
			sink.Emit(PlayerDied{UserID: userID, FinalScore: e.FinalScore})
		}
	}
}

// ShouldClose reports whether the game has no live players and none
// waiting to spawn, and can therefore be torn down. Grounded on
// LocalManager::player_died in original_source/tournament/src/game.rs.
func (g *Manager) ShouldClose() bool {
	return g.model.Data.Players.Len() == 0 && g.model.SpawningPlayerCount() == 0
}
