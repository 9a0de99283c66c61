package userstore

import (
	"context"
	"testing"
)

func TestFakeStoreLookupByUsername(t *testing.T) {
	s := NewFakeStore()
	s.Seed(User{ID: 1, Username: "alice", Code: "right", HighScore: 10, Enabled: true})

	u, ok, err := s.LookupByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("LookupByUsername returned error: %v", err)
	}
	if !ok || u.ID != 1 {
		t.Fatalf("got %+v, %v, want user 1", u, ok)
	}

	_, ok, err = s.LookupByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("LookupByUsername returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no match for unregistered username")
	}
}

func TestFakeStoreBulkUpdateHighScoresIfHigher(t *testing.T) {
	s := NewFakeStore()
	s.Seed(User{ID: 1, Username: "alice", HighScore: 100})

	if err := s.BulkUpdateHighScoresIfHigher(context.Background(), []ScoreUpdate{
		{UserID: 1, Score: 50},
		{UserID: 1, Score: 150},
	}); err != nil {
		t.Fatalf("BulkUpdateHighScoresIfHigher returned error: %v", err)
	}

	u, _, _ := s.LookupByUsername(context.Background(), "alice")
	if u.HighScore != 150 {
		t.Fatalf("got high score %d, want 150 (lower submission must not regress it)", u.HighScore)
	}
}

func TestFakeStoreTopNLeaderboard(t *testing.T) {
	s := NewFakeStore()
	s.Seed(User{ID: 1, Username: "a", HighScore: 10})
	s.Seed(User{ID: 2, Username: "b", HighScore: 30})
	s.Seed(User{ID: 3, Username: "c", HighScore: 20})

	top, err := s.TopNLeaderboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("TopNLeaderboard returned error: %v", err)
	}
	if len(top) != 2 || top[0].Username != "b" || top[1].Username != "c" {
		t.Fatalf("got %+v, want [b(30) c(20)]", top)
	}
}
