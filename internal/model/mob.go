package model

import (
	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

// targetTimeToLive is the number of ticks a mob pursues one wandering
// target before picking a new one.
const targetTimeToLive = 50

// stuckRetargetThreshold is the blocked-turn count a mob must exceed
// before it abandons its target and picks a new one.
const stuckRetargetThreshold = 5

// Mob is a non-scoring wandering hazard.
type Mob struct {
	Position gamemap.Point
	Facing   direction.Direction
	IsDead   bool

	Target     gamemap.Point
	TargetTime int
	Stuck      int
	Path       []gamemap.Point // stack; Path[len-1] is the next step
}

// NewMob creates a newly-spawned mob with no target yet assigned; the
// first turn will immediately pick one (TargetTime starts at 0).
func NewMob(pos gamemap.Point) *Mob {
	return &Mob{
		Position: pos,
		Facing:   direction.North,
	}
}

// DealDamage kills the mob outright on any nonzero damage.
func (m *Mob) DealDamage(amount uint8) {
	if amount > 0 {
		m.IsDead = true
	}
}

// popPath removes and returns the next step of the cached path, or
// ok=false if the path is empty.
func (m *Mob) popPath() (gamemap.Point, bool) {
	if len(m.Path) == 0 {
		return gamemap.Point{}, false
	}
	n := len(m.Path) - 1
	next := m.Path[n]
	m.Path = m.Path[:n]
	return next, true
}
