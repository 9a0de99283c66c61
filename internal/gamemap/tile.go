package gamemap

// BaseTile is the terrain kind of a single grid cell.
type BaseTile int

const (
	Land BaseTile = iota
	Water
	Wall
)

// Traversable reports whether an entity may occupy this tile.
func (t BaseTile) Traversable() bool {
	return t == Land
}

// String returns the single-character wire form used by the spectator
// protocol (L|X|W).
func (t BaseTile) String() string {
	switch t {
	case Land:
		return "L"
	case Wall:
		return "X"
	case Water:
		return "W"
	default:
		return "?"
	}
}

// Food is a consumable placed on a Land tile.
type Food int

const (
	Fruit Food = iota
	PowerPill
)

// String returns the single-character wire form used by the spectator
// protocol (F|P).
func (f Food) String() string {
	switch f {
	case Fruit:
		return "F"
	case PowerPill:
		return "P"
	default:
		return "?"
	}
}
