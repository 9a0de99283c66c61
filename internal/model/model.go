// Package model implements the deterministic per-tick simulation of a
// single game instance: player/mob turn resolution, combat, food, and
// spawning.
package model

import (
	"math/rand"
	"time"

	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

// foodRespawnPeriod is how often (in ticks) the food grid is wholesale
// replenished from the map's default layout.
const foodRespawnPeriod = 50

// spawnQueueEntry is one player waiting for a free spawn point.
type spawnQueueEntry struct {
	temporaryID int
	username    string
}

// Model owns one game's GameData, the tick counter, the queue of
// players awaiting a spawn point, and the desired mob population.
type Model struct {
	Data GameData

	tick            uint64
	tickStart       time.Time
	spawningPlayers []spawnQueueEntry
	desiredMobCount int
	rng             *rand.Rand
}

// New creates a Model over m with the given desired mob population.
func New(m *gamemap.Map, desiredMobCount int) *Model {
	return &Model{
		Data:            *NewGameData(m),
		desiredMobCount: desiredMobCount,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Tick returns the current tick counter.
func (md *Model) Tick() uint64 { return md.tick }

// WaitingPlayers returns the count of live players whose next_action
// has not yet been set for the coming tick.
func (md *Model) WaitingPlayers() int {
	count := 0
	md.Data.Players.Each(func(_ int, p *Player) {
		if !p.HasPendingAction() {
			count++
		}
	})
	return count
}

// SpawningPlayerCount returns the number of connections still queued
// awaiting a free spawn point.
func (md *Model) SpawningPlayerCount() int { return len(md.spawningPlayers) }

// AddClient enqueues a newly-connected player for spawning on a future
// tick.
func (md *Model) AddClient(temporaryID int, username string) {
	md.spawningPlayers = append(md.spawningPlayers, spawnQueueEntry{temporaryID: temporaryID, username: username})
}

// PlayerAction records the action a live player wants to take. tick is
// accepted unconditionally here; tick-mismatch filtering is the
// orchestrator's responsibility (§5) since only it knows the game's
// current tick at the time the action arrived.
func (md *Model) PlayerAction(inGameID int, action Action, _tick uint64) {
	p, ok := md.Data.Players.Get(inGameID)
	if !ok {
		return
	}
	p.SetNextAction(action)
}

// RemoveClient forcibly removes a live player (e.g. on disconnect) and
// returns it, clearing its entity grid cell.
func (md *Model) RemoveClient(inGameID int) (*Player, bool) {
	p, ok := md.Data.Players.Remove(inGameID)
	if !ok {
		return nil, false
	}
	md.Data.ClearEntity(p.Position)
	return p, true
}

// SpawnMob attempts to create one mob at a location chosen by the
// map's mob spawn policy. Returns false if no location is available.
func (md *Model) SpawnMob() bool {
	p, ok := md.Data.spawnLocation(md.Data.Map.MobSpawn(), md.rng)
	if !ok {
		return false
	}
	id := md.Data.Mobs.Add(NewMob(p))
	md.Data.AddEntity(p, MobEntity(id))
	return true
}

// trySpawnPlayer attempts to create one player at a location chosen by
// the map's player spawn policy. Returns the new in-game id and true on
// success.
func (md *Model) trySpawnPlayer(entry spawnQueueEntry) (int, bool) {
	p, ok := md.Data.spawnLocation(md.Data.Map.PlayerSpawn(), md.rng)
	if !ok {
		return 0, false
	}
	id := md.Data.Players.Add(NewPlayer(p, entry.username, entry.temporaryID))
	md.Data.AddEntity(p, PlayerEntity(id))
	return id, true
}

// SimulateTick runs one deterministic simulation step, appending every
// event it produces to sink. The whole call is a critical section: the
// caller must not mutate Data concurrently with this call.
func (md *Model) SimulateTick(sink EventSink) {
	md.tick++
	md.tickStart = time.Now()

	if md.tick%foodRespawnPeriod == 0 {
		md.Data.Food = md.Data.Map.NewDefaultFoodGrid()
	}

	queue := md.snapshotEntityQueue()
	for _, idx := range queue {
		md.processTurn(idx)
	}

	md.sweepDeadPlayers(sink)
	md.sweepDeadMobs()

	for len(md.spawningPlayers) > 0 {
		entry := md.spawningPlayers[0]
		id, ok := md.trySpawnPlayer(entry)
		if !ok {
			break
		}
		md.spawningPlayers = md.spawningPlayers[1:]
		sink.Emit(PlayerSpawned{TemporaryID: entry.temporaryID, InGameID: id})
	}

	for md.Data.Mobs.Len() < md.desiredMobCount {
		if !md.SpawnMob() {
			break
		}
	}

	sink.Emit(ProcessTick{GameData: &md.Data, Tick: md.tick, Duration: time.Since(md.tickStart)})
}

// snapshotEntityQueue fixes turn order for the tick: scan the entity
// grid column-major and collect every occupied cell's EntityIndex.
func (md *Model) snapshotEntityQueue() []EntityIndex {
	var queue []EntityIndex
	for x := 0; x < md.Data.Map.Width(); x++ {
		for y := 0; y < md.Data.Map.Height(); y++ {
			if idx := md.Data.Entities.Get(x, y); idx != nil {
				queue = append(queue, *idx)
			}
		}
	}
	return queue
}

func (md *Model) processTurn(idx EntityIndex) {
	switch idx.Kind {
	case KindPlayer:
		p, ok := md.Data.Players.Get(idx.ID)
		if !ok || p.Dead() {
			return
		}
		md.playerTurn(idx.ID, p)
	case KindMob:
		mo, ok := md.Data.Mobs.Get(idx.ID)
		if !ok || mo.IsDead {
			return
		}
		md.mobTurn(idx.ID, mo)
	}
}

func (md *Model) sweepDeadPlayers(sink EventSink) {
	for id := 0; id < md.Data.Players.MaxID(); id++ {
		p, ok := md.Data.Players.Get(id)
		if !ok || !p.Dead() {
			continue
		}
		md.Data.Players.Remove(id)
		sink.Emit(PlayerDied{PlayerID: id, FinalScore: p.Score})
	}
}

func (md *Model) sweepDeadMobs() {
	for id := 0; id < md.Data.Mobs.MaxID(); id++ {
		mo, ok := md.Data.Mobs.Get(id)
		if !ok || !mo.IsDead {
			continue
		}
		md.Data.Mobs.Remove(id)
	}
}
