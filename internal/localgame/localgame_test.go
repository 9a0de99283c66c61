package localgame

import (
	"testing"

	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
	"github.com/louisdewar/pacman-tournament/internal/model"
)

func mustMap(t *testing.T, text string) *gamemap.Map {
	t.Helper()
	m, err := gamemap.NewFromString(text)
	if err != nil {
		t.Fatalf("NewFromString(%q) returned error: %v", text, err)
	}
	return m
}

func TestTrySpawnPlayerRewritesSpawnedEventToUserID(t *testing.T) {
	g := New(mustMap(t, "P"))

	const userID = 42
	if !g.TrySpawnPlayer(userID, "alice") {
		t.Fatal("expected room for one player")
	}

	sink := &SliceSink{}
	g.SimulateTick(sink)

	var spawnedUserID int
	found := false
	for _, ev := range sink.Events {
		if s, ok := ev.(PlayerSpawned); ok {
			spawnedUserID = s.UserID
			found = true
		}
	}
	if !found {
		t.Fatal("expected a PlayerSpawned event")
	}
	if spawnedUserID != userID {
		t.Fatalf("got spawned user id %d, want %d", spawnedUserID, userID)
	}
	if g.ShouldClose() {
		t.Fatal("game should stay open with a live player")
	}
}

func TestTrySpawnPlayerRejectsWhenFull(t *testing.T) {
	// Eight distinct spawn points so all MaxPlayers connections can
	// actually become live in a single tick.
	g := New(mustMap(t, "PPPPPPPP"))

	for i := 0; i < MaxPlayers; i++ {
		if !g.TrySpawnPlayer(i, "p") {
			t.Fatalf("expected room for player %d", i)
		}
	}
	g.SimulateTick(&SliceSink{})
	if g.Data().Players.Len() != MaxPlayers {
		t.Fatalf("got %d live players, want %d", g.Data().Players.Len(), MaxPlayers)
	}

	if g.TrySpawnPlayer(999, "overflow") {
		t.Fatal("expected TrySpawnPlayer to refuse once MaxPlayers are live")
	}
}

func TestRemoveClientRetiresIDMapping(t *testing.T) {
	g := New(mustMap(t, "P"))
	g.TrySpawnPlayer(7, "bob")

	sink := &SliceSink{}
	g.SimulateTick(sink)
	var inGameID int
	for _, ev := range sink.Events {
		if s, ok := ev.(PlayerSpawned); ok {
			inGameID = s.InGamePlayerID
		}
	}

	g.RemoveClient(inGameID)
	if !g.ShouldClose() {
		t.Fatal("expected the game to be closeable after its only player leaves")
	}
}

func TestPlayerDiedEventCarriesUserID(t *testing.T) {
	m := mustMap(t, "P P")
	g := New(m)
	g.TrySpawnPlayer(1, "a")
	g.TrySpawnPlayer(2, "b")

	spawnSink := &SliceSink{}
	g.SimulateTick(spawnSink)

	ids := map[int]int{} // user id -> in-game id
	for _, ev := range spawnSink.Events {
		if s, ok := ev.(PlayerSpawned); ok {
			ids[s.UserID] = s.InGamePlayerID
		}
	}
	if len(ids) != 2 {
		t.Fatalf("got %d spawns, want 2", len(ids))
	}

	data := g.Data()
	a, _ := data.Players.Get(ids[1])
	b, _ := data.Players.Get(ids[2])
	if a.Position.X < b.Position.X {
		a.Facing, b.Facing = direction.East, direction.West
	} else {
		a.Facing, b.Facing = direction.West, direction.East
	}

	g.PlayAction(ids[1], model.Forward, g.Tick())
	g.PlayAction(ids[2], model.Forward, g.Tick())

	sink := &SliceSink{}
	g.SimulateTick(sink)

	deaths := 0
	for _, ev := range sink.Events {
		if d, ok := ev.(PlayerDied); ok {
			deaths++
			if d.UserID != 1 && d.UserID != 2 {
				t.Fatalf("got PlayerDied for unexpected user id %d", d.UserID)
			}
		}
	}
	if deaths != 2 {
		t.Fatalf("got %d PlayerDied events, want 2", deaths)
	}
}
