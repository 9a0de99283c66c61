package userstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the pgx-backed Store, grounded on the `users` table shape
// from original_source/db/src/model.rs (id, username, code,
// high_score, enabled).
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore opens a connection pool against address (PG_ADDRESS).
func NewPGStore(ctx context.Context, address string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("userstore: connecting to postgres: %w", err)
	}
	return &PGStore{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) LookupByUsername(ctx context.Context, username string) (User, bool, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, username, code, high_score, enabled FROM users WHERE username = $1`,
		username)

	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Code, &u.HighScore, &u.Enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, fmt.Errorf("userstore: lookup_by_username(%q): %w", username, err)
	}
	return u, true, nil
}

func (s *PGStore) BulkUpdateHighScoresIfHigher(ctx context.Context, scores []ScoreUpdate) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("userstore: begin bulk high score update: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range scores {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET high_score = $1 WHERE id = $2 AND high_score <= $1`,
			s.Score, s.UserID); err != nil {
			return fmt.Errorf("userstore: update high score for user %d: %w", s.UserID, err)
		}
	}
	return tx.Commit(ctx)
}

func (s *PGStore) TopNLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, username, high_score FROM users ORDER BY high_score DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("userstore: top_n_leaderboard(%d): %w", limit, err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.HighScore); err != nil {
			return nil, fmt.Errorf("userstore: scanning leaderboard row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
