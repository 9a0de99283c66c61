package model

import (
	"testing"

	"github.com/louisdewar/pacman-tournament/internal/direction"
	"github.com/louisdewar/pacman-tournament/internal/gamemap"
)

func mustMap(t *testing.T, text string) *gamemap.Map {
	t.Helper()
	m, err := gamemap.NewFromString(text)
	if err != nil {
		t.Fatalf("NewFromString(%q) returned error: %v", text, err)
	}
	return m
}

// spawnAll drains the spawn queue for the given number of ticks,
// returning every PlayerSpawned event in emission order.
func spawnAll(md *Model, ticks int) []PlayerSpawned {
	var spawned []PlayerSpawned
	for i := 0; i < ticks; i++ {
		sink := &SliceSink{}
		md.SimulateTick(sink)
		for _, ev := range sink.Events {
			if s, ok := ev.(PlayerSpawned); ok {
				spawned = append(spawned, s)
			}
		}
	}
	return spawned
}

// These exercise playerTurn directly rather than going through
// SimulateTick, so the mob's own (randomized) wandering AI can't
// interfere with the scripted scenario from spec §8 scenario 1.

func TestPowerPillPickupThenDoubleHitKillsMobAndScores(t *testing.T) {
	m := mustMap(t, "P|M")
	md := New(m, 0)

	playerID := md.Data.Players.Add(NewPlayer(gamemap.Point{X: 0, Y: 0}, "middle", 0))
	md.Data.AddEntity(gamemap.Point{X: 0, Y: 0}, PlayerEntity(playerID))
	mobID := md.Data.Mobs.Add(NewMob(gamemap.Point{X: 2, Y: 0}))
	md.Data.AddEntity(gamemap.Point{X: 2, Y: 0}, MobEntity(mobID))

	player, _ := md.Data.Players.Get(playerID)
	player.Facing = direction.East
	baseline := player.Score

	// Step 1: move forward onto the power pill at x=1.
	player.SetNextAction(Forward)
	md.playerTurn(playerID, player)
	if !player.HasPowerPill {
		t.Fatal("expected the player to have picked up the power pill")
	}
	if player.Score != baseline+1+100 {
		t.Fatalf("got score %d after pill pickup, want %d", player.Score, baseline+1+100)
	}
	if player.Position != (gamemap.Point{X: 1, Y: 0}) {
		t.Fatalf("got position %v, want (1,0)", player.Position)
	}

	// Step 2: eat, double-hitting forward: the first hit kills the mob in
	// the adjacent cell without moving, the second steps into the cell it
	// vacated.
	player.SetNextAction(Eat)
	md.playerTurn(playerID, player)

	wantScore := baseline + 100 + 150 + 2 // +1 score-per-tick for each of the 2 turns above
	if player.Score != wantScore {
		t.Fatalf("got score %d after eat, want %d", player.Score, wantScore)
	}
	if player.Position != (gamemap.Point{X: 2, Y: 0}) {
		t.Fatalf("got position %v after eat, want (2,0)", player.Position)
	}
	mob, ok := md.Data.Mobs.Get(mobID)
	if ok && !mob.IsDead {
		t.Fatal("expected the mob to be dead")
	}
}

func TestHeadOnCollisionKillsBothNoScore(t *testing.T) {
	// Two player spawns, one cell apart on a row of land.
	m := mustMap(t, "P P")
	md := New(m, 0)

	md.AddClient(0, "a")
	md.AddClient(1, "b")
	spawned := spawnAll(md, 1)
	if len(spawned) != 2 {
		t.Fatalf("got %d spawns, want 2", len(spawned))
	}

	idA, idB := spawned[0].InGameID, spawned[1].InGameID
	a, _ := md.Data.Players.Get(idA)
	b, _ := md.Data.Players.Get(idB)

	// a is at x=0, b is at x=2, both facing North (default). Turn them to
	// face each other before they step forward.
	if a.Position.X < b.Position.X {
		a.Facing = direction.East
		b.Facing = direction.West
	} else {
		a.Facing = direction.West
		b.Facing = direction.East
	}

	md.PlayerAction(idA, Forward, md.Tick())
	md.PlayerAction(idB, Forward, md.Tick())
	sink := &SliceSink{}
	md.SimulateTick(sink)

	deaths := 0
	for _, ev := range sink.Events {
		if d, ok := ev.(PlayerDied); ok {
			deaths++
			// One survival point for the turn, no kill award.
			if d.FinalScore != 1 {
				t.Fatalf("got final score %d for player %d, want 1", d.FinalScore, d.PlayerID)
			}
		}
	}
	if deaths != 2 {
		t.Fatalf("got %d PlayerDied events, want 2", deaths)
	}
	if md.Data.Players.Len() != 0 {
		t.Fatalf("expected both players removed, %d remain", md.Data.Players.Len())
	}
}

func TestInvulnerabilityBlocksMobAttack(t *testing.T) {
	// Exercises mobStep directly, aimed at the player's cell, so the mob's
	// own random target selection can't move it somewhere else first.
	m := mustMap(t, "P M")
	md := New(m, 0)

	playerID := md.Data.Players.Add(NewPlayer(gamemap.Point{X: 0, Y: 0}, "p", 0))
	md.Data.AddEntity(gamemap.Point{X: 0, Y: 0}, PlayerEntity(playerID))
	mob := NewMob(gamemap.Point{X: 2, Y: 0})
	mobID := md.Data.Mobs.Add(mob)
	md.Data.AddEntity(gamemap.Point{X: 2, Y: 0}, MobEntity(mobID))

	p, _ := md.Data.Players.Get(playerID)
	if p.InvulnerableTurn == 0 {
		t.Fatal("expected a freshly spawned player to be invulnerable")
	}
	health := p.Health

	if moved := md.mobStep(mobID, mob, gamemap.Point{X: 0, Y: 0}); moved {
		t.Fatal("expected the mob's attack to be blocked by invulnerability")
	}
	p, _ = md.Data.Players.Get(playerID)
	if p.Health != health {
		t.Fatalf("got health %d, want unchanged %d while invulnerable", p.Health, health)
	}
	if md.Data.EntityAt(gamemap.Point{X: 2, Y: 0}) == nil {
		t.Fatal("expected the mob to remain in place after a blocked attack")
	}
}

// TestFoodRespawnsEveryFiftyTicks exercises spec §8 scenario 4: a player
// eats a power pill at tick 10, and the cell stays empty through tick 49
// before the map-wide food respawn restores it at tick 50.
func TestFoodRespawnsEveryFiftyTicks(t *testing.T) {
	m := mustMap(t, "          |")
	md := New(m, 0)

	playerID := md.Data.Players.Add(NewPlayer(gamemap.Point{X: 9, Y: 0}, "walker", 0))
	md.Data.AddEntity(gamemap.Point{X: 9, Y: 0}, PlayerEntity(playerID))
	player, _ := md.Data.Players.Get(playerID)
	player.Facing = direction.East

	for i := uint64(1); i < 10; i++ {
		md.SimulateTick(&SliceSink{})
	}

	// Tick 10: step forward onto the pill and eat it.
	player.SetNextAction(Forward)
	md.SimulateTick(&SliceSink{})
	if md.Tick() != 10 {
		t.Fatalf("expected tick 10, got %d", md.Tick())
	}
	if f := md.Data.Food.Get(10, 0); f != nil {
		t.Fatalf("expected the power pill eaten at tick 10, got %v", f)
	}

	for i := md.Tick(); i < 49; i++ {
		md.SimulateTick(&SliceSink{})
	}
	if f := md.Data.Food.Get(10, 0); f != nil {
		t.Fatalf("expected no food pre-respawn at tick %d, got %v", md.Tick(), f)
	}

	md.SimulateTick(&SliceSink{})
	if md.Tick() != 50 {
		t.Fatalf("expected tick 50, got %d", md.Tick())
	}
	f := md.Data.Food.Get(10, 0)
	if f == nil || *f != gamemap.PowerPill {
		t.Fatalf("expected power pill restored at tick 50, got %v", f)
	}
}
