package model

import (
	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

// Player is a live competitor entity.
type Player struct {
	Position         gamemap.Point
	Facing           direction.Direction
	Health           uint8
	InvulnerableTurn uint8
	HasPowerPill     bool
	Score            uint32
	Username         string

	// TemporaryID is the connection-scoped id the player was spawned
	// under; the orchestrator reads it off of PlayerSpawned to rewrite
	// it into the global user id.
	TemporaryID int

	nextAction *Action
}

// spawnHealth and spawnInvulnerableTurn are the fixed starting stats
// every freshly-spawned player receives: one hit from death, and a
// short grace period so a spawn can't be instantly camped.
const (
	spawnHealth           = 1
	spawnInvulnerableTurn = 2
)

// NewPlayer creates a newly-spawned player.
func NewPlayer(pos gamemap.Point, username string, temporaryID int) *Player {
	return &Player{
		Position:         pos,
		Facing:           direction.North,
		Health:           spawnHealth,
		InvulnerableTurn: spawnInvulnerableTurn,
		Username:         username,
		TemporaryID:      temporaryID,
	}
}

// Dead reports whether the player's health has reached 0.
func (p *Player) Dead() bool {
	return p.Health == 0
}

// Invulnerable reports whether the player cannot currently take damage.
func (p *Player) Invulnerable() bool {
	return p.InvulnerableTurn > 0
}

// SetNextAction records the action the player wants to take on the
// coming tick, overwriting any action already queued for it.
func (p *Player) SetNextAction(a Action) {
	act := a
	p.nextAction = &act
}

// takeNextAction clears and returns the queued action, defaulting to
// Stay when no action is queued.
func (p *Player) takeNextAction() Action {
	if p.nextAction == nil {
		return Stay
	}
	a := *p.nextAction
	p.nextAction = nil
	return a
}

// HasPendingAction reports whether SetNextAction has been called for
// the current tick and not yet consumed.
func (p *Player) HasPendingAction() bool {
	return p.nextAction != nil
}

// DealDamage reduces health by amount, saturating at 0.
func (p *Player) DealDamage(amount uint8) {
	if amount >= p.Health {
		p.Health = 0
		return
	}
	p.Health -= amount
}

// EatFood applies a food's effect: Fruit adds 10 score, PowerPill adds
// 100 score and sets the power-pill flag.
func (p *Player) EatFood(f gamemap.Food) {
	switch f {
	case gamemap.Fruit:
		p.Score += 10
	case gamemap.PowerPill:
		p.Score += 100
		p.HasPowerPill = true
	}
}
