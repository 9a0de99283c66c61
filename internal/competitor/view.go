package competitor

import (
	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
)

// buildTickMessage constructs the egocentric 3x4 view of the
// neighborhood around viewerID, rotated into its facing direction, per
// §6. Grounded directly on create_tick_message in
// original_source/model/src/network.rs: matrix position [1][2] is
// always the viewer's own cell, and the coordinate transform per
// facing direction is copied from that function's closure verbatim.
func buildTickMessage(data *model.GameData, viewerID int, tick uint64) (TickMessage, bool) {
	viewer, ok := data.Players.Get(viewerID)
	if !ok {
		return TickMessage{}, false
	}
	px, py := viewer.Position.X, viewer.Position.Y
	facing := viewer.Facing

	cell := func(x, y int) TileView {
		isCurrent := x == 0 && y == 0

		var nx, ny int
		switch facing {
		case direction.North:
			nx, ny = px+x, py-y
		case direction.East:
			nx, ny = px+y, py+x
		case direction.South:
			nx, ny = px-x, py+y
		case direction.West:
			nx, ny = px-y, py-x
		}

		if nx < 0 || ny < 0 || nx >= data.Map.Width() || ny >= data.Map.Height() {
			base := gamemap.Wall.String()
			return TileView{Base: base}
		}

		tv := TileView{Base: data.Map.BaseTile(nx, ny).String()}

		if food := data.Food.Get(nx, ny); food != nil {
			f := food.String()
			tv.Food = &f
		}

		if idx := data.Entities.Get(nx, ny); idx != nil {
			switch idx.Kind {
			case model.KindMob:
				if mo, ok := data.Mobs.Get(idx.ID); ok {
					tv.Mob = &MobView{Direction: mo.Facing.String()}
				}
			case model.KindPlayer:
				if p, ok := data.Players.Get(idx.ID); ok {
					tv.Player = &PlayerView{
						Direction:       p.Facing.String(),
						Health:          p.Health,
						HasPowerPill:    p.HasPowerPill,
						IsInvulnerable:  p.Invulnerable(),
						IsCurrentPlayer: isCurrent,
						Score:           p.Score,
						Username:        p.Username,
					}
				}
			}
		}

		return tv
	}

	var view [3][4]TileView
	for ix := 0; ix < 3; ix++ {
		for iy := 0; iy < 4; iy++ {
			view[ix][iy] = cell(ix-1, 2-iy)
		}
	}

	return TickMessage{View: view, Tick: tick}, true
}
