// Package userstore is the persistence layer consumed (not owned) by
// this spec: user lookup for authentication and high-score
// bookkeeping for the leaderboard. Grounded on
// original_source/tournament/src/db/actions.rs for the exact three
// queries, and on
// other_examples/c13d1be6_MOHCentral-opm-stats-api__internal-worker-pool.go
// for threading a pgxpool.Pool into a small store type.
package userstore

import "context"

// User is one registered competitor's credentials and standing.
type User struct {
	ID        int
	Username  string
	Code      string
	HighScore uint32
	Enabled   bool
}

// LeaderboardEntry is one row of top_n_leaderboard.
type LeaderboardEntry struct {
	ID        int
	Username  string
	HighScore uint32
}

// Store is the persistence interface the authentication manager and
// score keeper depend on. The Postgres-backed implementation lives in
// pg.go; an in-memory fake lives in fake.go for tests.
type Store interface {
	// LookupByUsername returns the user with the given username, or
	// ok=false if no such user is registered.
	LookupByUsername(ctx context.Context, username string) (User, bool, error)

	// BulkUpdateHighScoresIfHigher raises each user's stored high score
	// to max(current, submitted), for every pair in scores.
	BulkUpdateHighScoresIfHigher(ctx context.Context, scores []ScoreUpdate) error

	// TopNLeaderboard returns the top limit users by high score,
	// descending.
	TopNLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// ScoreUpdate is one user's live score as of the most recent tick it
// was observed in.
type ScoreUpdate struct {
	UserID int
	Score  uint32
}
