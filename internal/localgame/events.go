package localgame

import (
	"time"

	"github.com/louisdewar/pacman-tournament/internal/model"
)

// Event is one of PlayerSpawned, ProcessTick, PlayerDied: the same
// trio model.GameEvent carries, rewritten to speak in user ids instead
// of in-game entity ids.
type Event interface {
	isLocalGameEvent()
}

// PlayerSpawned is emitted once a queued user successfully takes a
// spawn point.
type PlayerSpawned struct {
	UserID         int
	InGamePlayerID int
}

// ProcessTick is emitted once per tick with the raw GameData snapshot
// and the id_map needed to translate it into egocentric views.
type ProcessTick struct {
	GameData *model.GameData
	Tick     uint64
	IDMap    map[int]int // in-game player id -> user id, as of this tick
	Duration time.Duration
}

// PlayerDied is emitted when a player's health reaches 0, identified
// by user id (the in-game id has already been retired).
type PlayerDied struct {
	UserID     int
	FinalScore uint32
}

func (PlayerSpawned) isLocalGameEvent() {}
func (ProcessTick) isLocalGameEvent()   {}
func (PlayerDied) isLocalGameEvent()    {}

// EventSink receives the rewritten events, in emission order.
type EventSink interface {
	Emit(Event)
}

// SliceSink is an EventSink backed by a plain slice.
type SliceSink struct {
	Events []Event
}

// Emit appends ev to the sink.
func (s *SliceSink) Emit(ev Event) {
	s.Events = append(s.Events, ev)
}
