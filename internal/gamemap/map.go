// Package gamemap implements the immutable game board: base tiles,
// default food placements, and spawn-location policy.
package gamemap

import (
	"fmt"

	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/grid"
)

// Point is an (x, y) grid coordinate.
type Point struct {
	X, Y int
}

// SpawnLocation describes where players or mobs may spawn.
type SpawnLocation struct {
	// Points is nil for a Random spawn location, and the exhaustive list
	// of candidate points for a Defined one.
	Points []Point
}

// Random is the spawn policy used when a map defines no explicit spawn
// markers for the entity kind.
var Random = SpawnLocation{Points: nil}

// Defined builds a spawn policy restricted to the given points.
func Defined(points []Point) SpawnLocation {
	return SpawnLocation{Points: points}
}

// IsRandom reports whether this is the Random policy.
func (s SpawnLocation) IsRandom() bool {
	return s.Points == nil
}

// Map is the immutable board shared by every game instance created
// from it.
type Map struct {
	width, height int
	baseTiles     *grid.Grid[BaseTile]
	defaultFood   *grid.Grid[*Food]
	playerSpawn   SpawnLocation
	mobSpawn      SpawnLocation
}

// Width returns the map's width in cells.
func (m *Map) Width() int { return m.width }

// Height returns the map's height in cells.
func (m *Map) Height() int { return m.height }

// BaseTile returns the terrain at (x, y).
func (m *Map) BaseTile(x, y int) BaseTile {
	return m.baseTiles.Get(x, y)
}

// BaseTiles returns the map's base tile grid.
func (m *Map) BaseTiles() *grid.Grid[BaseTile] {
	return m.baseTiles
}

// DefaultFoodLocations returns the food layout restored every 50 ticks.
func (m *Map) DefaultFoodLocations() *grid.Grid[*Food] {
	return m.defaultFood
}

// NewDefaultFoodGrid returns a fresh copy of the map's default food
// layout, suitable for installing as a game's current food grid.
func (m *Map) NewDefaultFoodGrid() *grid.Grid[*Food] {
	return m.defaultFood.Clone()
}

// PlayerSpawn returns the player spawn policy.
func (m *Map) PlayerSpawn() SpawnLocation { return m.playerSpawn }

// MobSpawn returns the mob spawn policy.
func (m *Map) MobSpawn() SpawnLocation { return m.mobSpawn }

// CalcForward returns the neighbor of (x, y) in dir, or ok=false if that
// neighbor would be off the grid. No wrap-around.
func (m *Map) CalcForward(x, y int, dir direction.Direction) (nx, ny int, ok bool) {
	dx, dy := dir.Delta()
	nx, ny = x+dx, y+dy
	if !m.baseTiles.InBounds(nx, ny) {
		return 0, 0, false
	}
	return nx, ny, true
}

// CalcDirection returns the four-connected direction from src to dst.
// Behaviour is unspecified (but deterministic) when src and dst do not
// share a row or column; callers only invoke this on known-adjacent path
// steps.
func CalcDirection(src, dst Point) direction.Direction {
	return direction.FromDelta(dst.X-src.X, dst.Y-src.Y)
}

// charMeaning decodes a single map character into its food/tile pair,
// or reports ok=false for an invalid character.
func charMeaning(c byte) (food *Food, tile BaseTile, isSpawn byte, ok bool) {
	switch c {
	case 'X':
		return nil, Wall, 0, true
	case ' ':
		return nil, Land, 0, true
	case '.':
		f := Fruit
		return &f, Land, 0, true
	case '|':
		f := PowerPill
		return &f, Land, 0, true
	case 'P':
		return nil, Land, 'P', true
	case 'M':
		return nil, Land, 'M', true
	default:
		return nil, Land, 0, false
	}
}

// NewFromString parses a rectangular ASCII map. Each character means:
// X=Wall, space=Land, .=Land+Fruit, |=Land+PowerPill, P=Land (recorded
// as a player spawn point), M=Land (recorded as a mob spawn point). If
// no P (resp. M) appears the corresponding spawn policy is Random;
// otherwise it is Defined with the collected points. All rows must be
// the same length.
func NewFromString(text string) (*Map, error) {
	var rows [][]byte
	for start := 0; start <= len(text); {
		end := start
		for end < len(text) && text[end] != '\n' {
			end++
		}
		if end > start || end < len(text) {
			rows = append(rows, []byte(text[start:end]))
		}
		start = end + 1
	}
	// Drop a single trailing empty row caused by a final newline.
	if n := len(rows); n > 0 && len(rows[n-1]) == 0 {
		rows = rows[:n-1]
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("gamemap: map text is empty")
	}

	width := len(rows[0])
	height := len(rows)

	baseTiles := grid.New[BaseTile](width, height)
	defaultFood := grid.New[*Food](width, height)
	var playerSpawns, mobSpawns []Point

	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("gamemap: row %d has length %d, want %d (map must be rectangular)", y, len(row), width)
		}
		for x, c := range row {
			food, tile, spawn, ok := charMeaning(c)
			if !ok {
				return nil, fmt.Errorf("gamemap: invalid map character %q at (%d, %d)", c, x, y)
			}
			baseTiles.Set(x, y, tile)
			defaultFood.Set(x, y, food)
			switch spawn {
			case 'P':
				playerSpawns = append(playerSpawns, Point{X: x, Y: y})
			case 'M':
				mobSpawns = append(mobSpawns, Point{X: x, Y: y})
			}
		}
	}

	playerSpawn := Random
	if len(playerSpawns) > 0 {
		playerSpawn = Defined(playerSpawns)
	}
	mobSpawn := Random
	if len(mobSpawns) > 0 {
		mobSpawn = Defined(mobSpawns)
	}

	return &Map{
		width:       width,
		height:      height,
		baseTiles:   baseTiles,
		defaultFood: defaultFood,
		playerSpawn: playerSpawn,
		mobSpawn:    mobSpawn,
	}, nil
}
