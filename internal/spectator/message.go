package spectator

import "github.com/louisdewar/pacman-tournament/internal/gamemap"

// dynamicMetadata is the part of an entity's state that can change
// every tick: facing, invulnerability, and (for players only) live
// score. Grounded on
// original_source/tournament/src/spectator/message.rs's
// DynamicEntityMetadata.
type dynamicMetadata struct {
	direction    string
	invulnerable bool
	liveScore    *uint32
}

// staticMetadata is a player's metadata that never changes once
// spawned: username and the high score it carried into the game.
// Grounded on PlayerStaticMetadata in the same file.
type staticMetadata struct {
	username  string
	highScore uint32
}

// completeMetadata is everything an EntitySpawned section needs.
type completeMetadata struct {
	isPlayer bool
	variant  uint8 // the in-game entity id, truncated to a byte as the wire format does
	dynamic  dynamicMetadata
	player   *staticMetadata // nil for mobs
}

type entityDied struct {
	position uint32
}

type entityMoved struct {
	start, end uint32
}

type entitySpawned struct {
	position uint32
	metadata completeMetadata
}

type foodEaten struct {
	position uint32
}

type foodSpawned struct {
	position uint32
	food     gamemap.Food
}

type metadataChanged struct {
	position uint32
	metadata dynamicMetadata
}

// deltaMessage is one tick's worth of change, in the fixed section
// order the wire format requires (spec §6): deaths, moves, spawns,
// food-eaten, food-spawned, metadata-changes.
type deltaMessage struct {
	gameID          int
	died            []entityDied
	moved           []entityMoved
	spawned         []entitySpawned
	foodEaten       []foodEaten
	foodSpawned     []foodSpawned
	metadataChanged []metadataChanged
}

// initialMessage describes a whole game instance as it stands right
// now, sent once per open game to every newly-connected spectator.
type initialMessage struct {
	gameID    int
	width     int
	height    int
	baseTiles []gamemap.BaseTile // column-major, width*height
	entities  []*completeMetadata
	food      []*gamemap.Food
}
