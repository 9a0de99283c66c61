package userstore

import (
	"context"
	"sort"
	"sync"
)

// FakeStore is an in-memory Store for tests, seeded directly via
// Seed rather than through a registration flow (registration is out
// of core scope per spec.md §1).
type FakeStore struct {
	mu    sync.Mutex
	users map[int]User
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{users: make(map[int]User)}
}

// Seed inserts or replaces a user record.
func (f *FakeStore) Seed(u User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
}

func (f *FakeStore) LookupByUsername(_ context.Context, username string) (User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

func (f *FakeStore) BulkUpdateHighScoresIfHigher(_ context.Context, scores []ScoreUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range scores {
		u, ok := f.users[s.UserID]
		if !ok {
			continue
		}
		if s.Score > u.HighScore {
			u.HighScore = s.Score
			f.users[s.UserID] = u
		}
	}
	return nil
}

func (f *FakeStore) TopNLeaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(f.users))
	for _, u := range f.users {
		entries = append(entries, LeaderboardEntry{ID: u.ID, Username: u.Username, HighScore: u.HighScore})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].HighScore > entries[j].HighScore })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
