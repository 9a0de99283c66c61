package model

import (
	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

// searchEnergy bounds how many steps the mob's per-tick BFS expands
// from its current cell (spec §4.2.4).
const searchEnergy = 9

// mobTurn resolves one mob's turn: retarget, path maintenance, then a
// single step of movement or combat.
func (md *Model) mobTurn(id int, mo *Mob) {
	if mo.TargetTime == 0 || mo.Position == mo.Target || mo.Stuck > stuckRetargetThreshold {
		md.retargetMob(mo)
	}
	if mo.TargetTime > 0 {
		mo.TargetTime--
	}

	if len(mo.Path) == 0 {
		md.planMobPath(mo)
		if len(mo.Path) == 0 {
			// No reachable step at all this tick; try again next tick.
			return
		}
	}

	next := mo.Path[len(mo.Path)-1]
	want := gamemap.CalcDirection(mo.Position, next)

	switch {
	case want == mo.Facing:
		if md.mobStep(id, mo, next) {
			mo.popPath()
			mo.Stuck = 0
		} else {
			mo.Stuck++
		}
	case want == mo.Facing.Reverse():
		mo.Facing = mo.Facing.Clockwise()
	default:
		mo.Facing = want
	}
}

func (md *Model) retargetMob(mo *Mob) {
	width, height := md.Data.Map.Width(), md.Data.Map.Height()
	mo.Target = gamemap.Point{X: md.rng.Intn(width), Y: md.rng.Intn(height)}
	mo.TargetTime = targetTimeToLive
	mo.Path = nil
	mo.Stuck = 0
}

// mobStep attempts to move the mob one cell forward into next, which
// is always Land (it came from planMobPath). Returns whether the mob
// actually ended up moving (or killing its way into the cell).
func (md *Model) mobStep(_ int, mo *Mob, next gamemap.Point) bool {
	if occupant := md.Data.EntityAt(next); occupant != nil {
		switch occupant.Kind {
		case KindMob:
			return false
		case KindPlayer:
			victim, ok := md.Data.Players.Get(occupant.ID)
			if !ok {
				break
			}
			if victim.Invulnerable() {
				return false
			}
			victim.DealDamage(1)
			if !victim.Dead() {
				return false
			}
			md.Data.ClearEntity(next)
		}
	}

	// Mobs don't eat, but food and entities must never co-occupy.
	md.Data.Food.Set(next.X, next.Y, nil)

	md.Data.MoveEntity(mo.Position, next)
	mo.Position = next
	return true
}

// bfsNode is one node of the bounded search used to plan a mob's path.
type bfsNode struct {
	pos      gamemap.Point
	parent   int // index into the visited slice, -1 for the root
	residual int
}

// planMobPath runs a bounded BFS (energy = searchEnergy) from the
// mob's current position restricted to Land cells, then picks a
// target node and reconstructs the path into mo.Path (stack, top =
// next step). See spec §4.2.4 for the full selection rule.
func (md *Model) planMobPath(mo *Mob) {
	forbidden := -1
	if fx, fy, ok := md.Data.Map.CalcForward(mo.Position.X, mo.Position.Y, mo.Facing); ok {
		if occ := md.Data.EntityAt(gamemap.Point{X: fx, Y: fy}); occ != nil && occ.Kind == KindMob {
			forbidden = int(mo.Facing)
		}
	}

	visited := []bfsNode{{pos: mo.Position, parent: -1, residual: searchEnergy}}
	seen := map[gamemap.Point]int{mo.Position: 0}

	for i := 0; i < len(visited); i++ {
		node := visited[i]
		if node.residual <= 0 {
			continue
		}
		for d := direction.Direction(0); d < 4; d++ {
			if node.pos == mo.Position && forbidden >= 0 && int(d) == forbidden {
				continue
			}
			nx, ny, ok := md.Data.Map.CalcForward(node.pos.X, node.pos.Y, d)
			if !ok {
				continue
			}
			p := gamemap.Point{X: nx, Y: ny}
			if md.Data.Map.BaseTile(p.X, p.Y) != gamemap.Land {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = len(visited)
			visited = append(visited, bfsNode{pos: p, parent: i, residual: node.residual - 1})
		}
	}

	best := -1
	bestDist := 1 << 30
	for i, node := range visited {
		dist := manhattan(node.pos, mo.Target)
		if dist <= 3 && dist < bestDist {
			best, bestDist = i, dist
		}
	}

	if best < 0 {
		for i, node := range visited {
			if node.residual != 1 || !unblocked(md, node.pos, seen) {
				continue
			}
			dist := manhattan(node.pos, mo.Target)
			if dist < bestDist {
				best, bestDist = i, dist
			}
		}
	}

	if best < 0 {
		// Fall back to the closest node reached at all, so the mob still
		// makes progress when the search window contains no frontier
		// node satisfying the normal selection rule.
		for i, node := range visited {
			dist := manhattan(node.pos, mo.Target)
			if dist < bestDist {
				best, bestDist = i, dist
			}
		}
	}

	if best <= 0 {
		mo.Path = nil
		return
	}

	var path []gamemap.Point
	for i := best; visited[i].parent >= 0; i = visited[i].parent {
		path = append(path, visited[i].pos)
	}
	mo.Path = path
}

// unblocked reports whether p has a Land neighbor not already reached
// by the current BFS expansion.
func unblocked(md *Model, p gamemap.Point, seen map[gamemap.Point]int) bool {
	for d := direction.Direction(0); d < 4; d++ {
		nx, ny, ok := md.Data.Map.CalcForward(p.X, p.Y, d)
		if !ok {
			continue
		}
		n := gamemap.Point{X: nx, Y: ny}
		if md.Data.Map.BaseTile(n.X, n.Y) != gamemap.Land {
			continue
		}
		if _, dup := seen[n]; !dup {
			return true
		}
	}
	return false
}

func manhattan(a, b gamemap.Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}
