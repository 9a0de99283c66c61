package spectator

import "strconv"

// ListenFilter narrows which games a spectator connection receives
// broadcasts for, grounded on original_source/tournament/src/spectator.rs's
// ListenFilter enum (AllGames | Game(usize)).
type ListenFilter struct {
	all    bool
	gameID int
}

// AllGames listens to every open game. Leaderboard frames go to every
// spectator whatever its filter.
func AllGames() ListenFilter { return ListenFilter{all: true} }

// GameFilter listens only to the named game's frames (plus the
// leaderboard, which every spectator receives).
func GameFilter(gameID int) ListenFilter { return ListenFilter{gameID: gameID} }

// Matches reports whether this filter admits broadcasts for gameID.
func (f ListenFilter) Matches(gameID int) bool {
	return f.all || f.gameID == gameID
}

// filterFromQuery reads the optional "game_id" query parameter a
// spectator connects with; its absence or malformedness means "all
// games", matching the default a spectator gets by connecting plain.
func filterFromQuery(raw string) ListenFilter {
	if raw == "" {
		return AllGames()
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return AllGames()
	}
	return GameFilter(id)
}
