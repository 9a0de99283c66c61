package model

import (
	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

const (
	mobKillScore    = 150
	playerKillScore = 150
)

// playerTurn resolves one player's turn: unconditional score/invuln
// ticking, then the action dispatch described in spec §4.2.3.
func (md *Model) playerTurn(id int, p *Player) {
	p.Score++
	if p.InvulnerableTurn > 0 {
		p.InvulnerableTurn--
	}

	action := p.takeNextAction()

	switch action {
	case Stay:
		return
	case TurnLeft:
		p.Facing = p.Facing.AntiClockwise()
	case TurnRight:
		p.Facing = p.Facing.Clockwise()
	case Forward:
		md.attackSquare(id, p, p.Facing, false)
	case Eat:
		if !p.HasPowerPill {
			return
		}
		p.HasPowerPill = false
		md.attackSquare(id, p, p.Facing, true)
		if p.Dead() {
			return
		}
		md.attackSquare(id, p, p.Facing, true)
	}
}

// attackSquare is the shared movement/combat primitive used by a
// player's Forward and Eat actions (spec §4.2.3). It mutates the
// attacking player and, as a side effect, whatever occupies the target
// square.
func (md *Model) attackSquare(attackerID int, attacker *Player, dir direction.Direction, usingPowerPill bool) {
	src := attacker.Position
	dx, dy, ok := md.Data.Map.CalcForward(src.X, src.Y, dir)
	if !ok {
		return
	}
	dstPoint := gamemap.Point{X: dx, Y: dy}
	if !md.Data.Map.BaseTile(dstPoint.X, dstPoint.Y).Traversable() {
		return
	}

	if occupant := md.Data.EntityAt(dstPoint); occupant != nil {
		switch occupant.Kind {
		case KindPlayer:
			defender, ok := md.Data.Players.Get(occupant.ID)
			if !ok {
				break
			}
			if defender.Facing == dir.Reverse() {
				// Head-on collision: both die, no score to either side
				// (normative choice, see DESIGN.md Open Questions).
				attacker.Health = 0
				defender.Health = 0
				md.Data.ClearEntity(src)
				md.Data.ClearEntity(dstPoint)
				return
			}
			if defender.Invulnerable() {
				return
			}
			defender.DealDamage(1)
			if !defender.Dead() {
				return
			}
			md.Data.ClearEntity(dstPoint)
			attacker.Score += playerKillScore
			// Fall through to the move below: the cell is now vacant.
		case KindMob:
			mo, ok := md.Data.Mobs.Get(occupant.ID)
			if !ok {
				break
			}
			if usingPowerPill {
				mo.IsDead = true
				md.Data.ClearEntity(dstPoint)
				attacker.Score += mobKillScore
				return
			}
			attacker.Health = 0
			md.Data.ClearEntity(src)
			return
		}
	}

	if food := md.Data.Food.Get(dstPoint.X, dstPoint.Y); food != nil {
		attacker.EatFood(*food)
		md.Data.Food.Set(dstPoint.X, dstPoint.Y, nil)
	}

	md.Data.MoveEntity(src, dstPoint)
	attacker.Position = dstPoint
}
