package model

import (
	"github.com/louisdewar/pacman-tournament/internal/bucket"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/grid"
)

// GameData is the authoritative state of one game instance: the map,
// the per-cell entity occupancy, the current food layout, and the
// player/mob buckets.
type GameData struct {
	Map      *gamemap.Map
	Entities *grid.Grid[*EntityIndex]
	Food     *grid.Grid[*gamemap.Food]
	Players  *bucket.Bucket[*Player]
	Mobs     *bucket.Bucket[*Mob]
}

// NewGameData builds an empty GameData over m: no entities, the map's
// default food layout.
func NewGameData(m *gamemap.Map) *GameData {
	return &GameData{
		Map:      m,
		Entities: grid.New[*EntityIndex](m.Width(), m.Height()),
		Food:     m.NewDefaultFoodGrid(),
		Players:  bucket.New[*Player](),
		Mobs:     bucket.New[*Mob](),
	}
}

// AddEntity places idx at (x, y) in the occupancy grid.
func (g *GameData) AddEntity(p gamemap.Point, idx EntityIndex) {
	g.Entities.Set(p.X, p.Y, &idx)
}

// ClearEntity empties the cell at (x, y).
func (g *GameData) ClearEntity(p gamemap.Point) {
	g.Entities.Set(p.X, p.Y, nil)
}

// EntityAt returns the EntityIndex at (x, y), or nil if empty.
func (g *GameData) EntityAt(p gamemap.Point) *EntityIndex {
	return g.Entities.Get(p.X, p.Y)
}

// MoveEntity swaps the occupancy cells at from and to; callers must
// update the entity's own stored position separately.
func (g *GameData) MoveEntity(from, to gamemap.Point) {
	g.Entities.Swap(from.X, from.Y, to.X, to.Y)
}

// Snapshot returns an independent deep copy of g, safe to retain and
// read from a goroutine other than the one driving SimulateTick.
// ProcessTick hands out &md.Data directly since every consumer inside
// the orchestrator's own tick loop reads it synchronously; a consumer
// that needs to keep comparing against an older frame (the spectator
// broadcaster's delta computation, run on its own goroutine) must call
// this first or it will race the next tick's in-place mutation. The
// map and the entity/food grids hold only immutable values once set,
// so their backing arrays are copied but not their pointees; player
// and mob structs are mutated in place every tick, so those are
// copied element-by-element into fresh buckets.
func (g *GameData) Snapshot() *GameData {
	players := bucket.New[*Player]()
	g.Players.Each(func(id int, p *Player) {
		cp := *p
		players.Insert(id, &cp)
	})
	mobs := bucket.New[*Mob]()
	g.Mobs.Each(func(id int, m *Mob) {
		cp := *m
		mobs.Insert(id, &cp)
	})
	return &GameData{
		Map:      g.Map,
		Entities: g.Entities.Clone(),
		Food:     g.Food.Clone(),
		Players:  players,
		Mobs:     mobs,
	}
}

// spawnLocation picks a uniformly random point from the candidates
// yielded by loc that are currently Land and unoccupied. Returns
// ok=false if no candidate qualifies.
func (g *GameData) spawnLocation(loc gamemap.SpawnLocation, rng randSource) (gamemap.Point, bool) {
	var candidates []gamemap.Point
	if loc.IsRandom() {
		for x := 0; x < g.Map.Width(); x++ {
			for y := 0; y < g.Map.Height(); y++ {
				p := gamemap.Point{X: x, Y: y}
				if g.Map.BaseTile(x, y) == gamemap.Land && g.EntityAt(p) == nil {
					candidates = append(candidates, p)
				}
			}
		}
	} else {
		for _, p := range loc.Points {
			if g.Map.BaseTile(p.X, p.Y) == gamemap.Land && g.EntityAt(p) == nil {
				candidates = append(candidates, p)
			}
		}
	}

	if len(candidates) == 0 {
		return gamemap.Point{}, false
	}
	return candidates[rng.Intn(len(candidates))], true
}

// randSource is the minimal random interface the simulator depends on,
// so tests can supply a deterministic source.
type randSource interface {
	Intn(n int) int
}
