package gamemap

import (
	"testing"

	"github.com/louisdewar/pacman-tournament/internal/direction"
)

func TestNewFromStringParsesTilesAndSpawns(t *testing.T) {
	m, err := NewFromString("PPP|M")
	if err != nil {
		t.Fatalf("NewFromString returned error: %v", err)
	}

	if m.Width() != 5 || m.Height() != 1 {
		t.Fatalf("got %dx%d map, want 5x1", m.Width(), m.Height())
	}

	wantSpawns := []Point{{0, 0}, {1, 0}, {2, 0}}
	playerSpawn := m.PlayerSpawn()
	if playerSpawn.IsRandom() || len(playerSpawn.Points) != len(wantSpawns) {
		t.Fatalf("got player spawns %v, want %v", playerSpawn.Points, wantSpawns)
	}
	for i, p := range wantSpawns {
		if playerSpawn.Points[i] != p {
			t.Errorf("player spawn %d = %v, want %v", i, playerSpawn.Points[i], p)
		}
	}

	mobSpawn := m.MobSpawn()
	if mobSpawn.IsRandom() || len(mobSpawn.Points) != 1 || mobSpawn.Points[0] != (Point{4, 0}) {
		t.Fatalf("got mob spawns %v, want [(4,0)]", mobSpawn.Points)
	}

	food := m.DefaultFoodLocations().Get(3, 0)
	if food == nil || *food != PowerPill {
		t.Fatalf("got food at (3,0) = %v, want PowerPill", food)
	}
}

func TestNewFromStringRandomWhenNoSpawnMarkers(t *testing.T) {
	m, err := NewFromString(" . |\nX  X")
	if err != nil {
		t.Fatalf("NewFromString returned error: %v", err)
	}
	if !m.PlayerSpawn().IsRandom() {
		t.Error("expected random player spawn when no P markers present")
	}
	if !m.MobSpawn().IsRandom() {
		t.Error("expected random mob spawn when no M markers present")
	}
}

func TestNewFromStringRejectsRaggedRows(t *testing.T) {
	_, err := NewFromString("XXX\nXX")
	if err == nil {
		t.Fatal("expected an error for a non-rectangular map")
	}
}

func TestNewFromStringRejectsInvalidCharacter(t *testing.T) {
	_, err := NewFromString("XZX")
	if err == nil {
		t.Fatal("expected an error for an invalid map character")
	}
}

func TestCalcForwardOffGridReturnsFalse(t *testing.T) {
	m, err := NewFromString("XXX\nXXX")
	if err != nil {
		t.Fatalf("NewFromString returned error: %v", err)
	}

	if _, _, ok := m.CalcForward(0, 0, direction.North); ok {
		t.Error("expected CalcForward off the top edge to fail")
	}
	if _, _, ok := m.CalcForward(2, 0, direction.East); ok {
		t.Error("expected CalcForward off the right edge to fail")
	}
	if x, y, ok := m.CalcForward(1, 0, direction.South); !ok || x != 1 || y != 1 {
		t.Errorf("got (%d,%d,%v), want (1,1,true)", x, y, ok)
	}
}
