package scorekeeper

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/louisdewar/pacman-tournament/internal/userstore"
)

func TestFlushWritesLatestScorePerUser(t *testing.T) {
	store := userstore.NewFakeStore()
	store.Seed(userstore.User{ID: 1, Username: "alice", HighScore: 0})
	store.Seed(userstore.User{ID: 2, Username: "bob", HighScore: 0})

	m := New(store, zerolog.Nop())
	// Simulate Run() having drained a couple of ScoreUpdates onto the
	// accumulator before the ticker fires.
	m.latest[1] = 40
	m.latest[2] = 5

	m.flush(context.Background())

	alice, _, _ := store.LookupByUsername(context.Background(), "alice")
	bob, _, _ := store.LookupByUsername(context.Background(), "bob")
	if alice.HighScore != 40 {
		t.Fatalf("got alice high score %d, want 40", alice.HighScore)
	}
	if bob.HighScore != 5 {
		t.Fatalf("got bob high score %d, want 5", bob.HighScore)
	}
	if len(m.latest) != 0 {
		t.Fatalf("expected flush to clear the accumulator, got %v", m.latest)
	}
}

func TestFlushIsNoOpWhenNothingAccumulated(t *testing.T) {
	store := userstore.NewFakeStore()
	m := New(store, zerolog.Nop())
	m.flush(context.Background()) // must not panic on an empty accumulator
}
