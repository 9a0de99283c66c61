package spectator

import (
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
)

// flatten encodes (x, y) as the single index the wire format uses
// (spec §6), matching original_source/tournament/src/spectator/delta.rs's
// flatten_coordinate and grid.Grid.Index's own x*height+y encoding.
func flatten(p gamemap.Point, height int) uint32 {
	return uint32(p.X*height + p.Y)
}

// computeDelta diffs old against new for one game, in mobs-then-players
// order (spec §4.6). idMap supplies the static {username, prev_high_score}
// every freshly-spawned player needs, since GameData only ever carries a
// player's live score.
func computeDelta(gameID int, old, new *model.GameData, idMap map[int]idMapEntry) deltaMessage {
	height := old.Map.Height()
	d := deltaMessage{gameID: gameID}

	computeMobDeltas(old, new, height, &d)
	computePlayerDeltas(old, new, height, idMap, &d)
	computeFoodDeltas(old, new, &d)

	return d
}

func computeMobDeltas(old, new *model.GameData, height int, d *deltaMessage) {
	old.Mobs.Each(func(id int, om *model.Mob) {
		nm, ok := new.Mobs.Get(id)
		if !ok {
			d.died = append(d.died, entityDied{position: flatten(om.Position, height)})
			return
		}

		if nm.Position != om.Position {
			d.moved = append(d.moved, entityMoved{
				start: flatten(om.Position, height),
				end:   flatten(nm.Position, height),
			})
		}
		if nm.Facing != om.Facing {
			d.metadataChanged = append(d.metadataChanged, metadataChanged{
				position: flatten(nm.Position, height),
				metadata: dynamicMetadata{direction: nm.Facing.String()},
			})
		}
	})

	new.Mobs.Each(func(id int, nm *model.Mob) {
		if _, ok := old.Mobs.Get(id); ok {
			return
		}
		d.spawned = append(d.spawned, entitySpawned{
			position: flatten(nm.Position, height),
			metadata: completeMetadata{
				isPlayer: false,
				variant:  uint8(id),
				dynamic:  dynamicMetadata{direction: nm.Facing.String()},
			},
		})
	})
}

func computePlayerDeltas(old, new *model.GameData, height int, idMap map[int]idMapEntry, d *deltaMessage) {
	old.Players.Each(func(id int, op *model.Player) {
		np, ok := new.Players.Get(id)
		if !ok {
			d.died = append(d.died, entityDied{position: flatten(op.Position, height)})
			return
		}

		if np.Position != op.Position {
			d.moved = append(d.moved, entityMoved{
				start: flatten(op.Position, height),
				end:   flatten(np.Position, height),
			})
		}

		invuln := np.Invulnerable()
		score := np.Score
		if np.Facing != op.Facing || invuln != op.Invulnerable() || score != op.Score {
			d.metadataChanged = append(d.metadataChanged, metadataChanged{
				position: flatten(np.Position, height),
				metadata: dynamicMetadata{direction: np.Facing.String(), invulnerable: invuln, liveScore: &score},
			})
		}
	})

	new.Players.Each(func(id int, np *model.Player) {
		if _, ok := old.Players.Get(id); ok {
			return
		}

		entry := idMap[id]
		score := np.Score
		d.spawned = append(d.spawned, entitySpawned{
			position: flatten(np.Position, height),
			metadata: completeMetadata{
				isPlayer: true,
				variant:  uint8(id),
				dynamic:  dynamicMetadata{direction: np.Facing.String(), invulnerable: np.Invulnerable(), liveScore: &score},
				player:   &staticMetadata{username: entry.username, highScore: entry.prevHighScore},
			},
		})
	})
}

// computeFoodDeltas does a pairwise column-major comparison (spec §4.6):
// Some -> None is FoodEaten, None -> Some or a changed type is
// FoodSpawned.
func computeFoodDeltas(old, new *model.GameData, d *deltaMessage) {
	width, height := old.Food.Width(), old.Food.Height()
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			position := flatten(gamemap.Point{X: x, Y: y}, height)
			of, nf := old.Food.Get(x, y), new.Food.Get(x, y)
			switch {
			case of != nil && nf == nil:
				d.foodEaten = append(d.foodEaten, foodEaten{position: position})
			case of != nil && nf != nil && *of == *nf:
				// no change
			case nf != nil:
				d.foodSpawned = append(d.foodSpawned, foodSpawned{position: position, food: *nf})
			}
		}
	}
}
