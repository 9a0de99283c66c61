package spectator

import (
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
)

// buildInitialMessage snapshots a whole game for a spectator that just
// connected, grounded on
// original_source/tournament/src/spectator/initial.rs.
func buildInitialMessage(gameID int, data *model.GameData, idMap map[int]idMapEntry) initialMessage {
	width, height := data.Map.Width(), data.Map.Height()

	baseTiles := make([]gamemap.BaseTile, 0, width*height)
	data.Map.BaseTiles().Each(func(x, y int, t gamemap.BaseTile) {
		baseTiles = append(baseTiles, t)
	})

	entities := make([]*completeMetadata, 0, width*height)
	data.Entities.Each(func(x, y int, idx *model.EntityIndex) {
		if idx == nil {
			entities = append(entities, nil)
			return
		}
		switch idx.Kind {
		case model.KindMob:
			mo, ok := data.Mobs.Get(idx.ID)
			if !ok {
				entities = append(entities, nil)
				return
			}
			entities = append(entities, &completeMetadata{
				isPlayer: false,
				variant:  uint8(idx.ID),
				dynamic:  dynamicMetadata{direction: mo.Facing.String()},
			})
		case model.KindPlayer:
			p, ok := data.Players.Get(idx.ID)
			if !ok {
				entities = append(entities, nil)
				return
			}
			entry := idMap[idx.ID]
			score := p.Score
			entities = append(entities, &completeMetadata{
				isPlayer: true,
				variant:  uint8(idx.ID),
				dynamic:  dynamicMetadata{direction: p.Facing.String(), invulnerable: p.Invulnerable(), liveScore: &score},
				player:   &staticMetadata{username: entry.username, highScore: entry.prevHighScore},
			})
		}
	})

	food := make([]*gamemap.Food, 0, width*height)
	data.Food.Each(func(x, y int, f *gamemap.Food) {
		food = append(food, f)
	})

	return initialMessage{
		gameID:    gameID,
		width:     width,
		height:    height,
		baseTiles: baseTiles,
		entities:  entities,
		food:      food,
	}
}
