package competitor

import "github.com/louisdewar/pacman-tournament/internal/model"

// authMessage is the first message of an unauthenticated connection
// (spec §4.4).
type authMessage struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// actionMessage is an in-game client's queued move for a tick.
type actionMessage struct {
	Tick   uint64 `json:"tick"`
	Action string `json:"action"`
}

// outboundEnvelope is the single-tag wrapper every server-to-client
// message uses (§4.4/§6): exactly one of its fields is set.
type outboundEnvelope struct {
	Error   string        `json:"error,omitempty"`
	Spawned *spawnedBody  `json:"spawned,omitempty"`
	Tick    *TickMessage  `json:"tick,omitempty"`
	Died    *diedBody     `json:"died,omitempty"`
}

type spawnedBody struct {
	GameID int `json:"game_id"`
}

type diedBody struct {
	FinalScore uint32 `json:"final_score"`
}

// TickMessage is the egocentric per-player view sent every tick (§6).
type TickMessage struct {
	View [3][4]TileView `json:"view"`
	Tick uint64         `json:"tick"`
}

// TileView is one cell of a TickMessage.view.
type TileView struct {
	Base   string      `json:"base"`
	Player *PlayerView `json:"player"`
	Mob    *MobView    `json:"mob"`
	Food   *string     `json:"food"`
}

// PlayerView carries a player's wire-visible attributes, including the
// viewer's own stats for the centre cell (is_current_player).
type PlayerView struct {
	Direction       string `json:"direction"`
	Health          uint8  `json:"health"`
	HasPowerPill    bool   `json:"has_powerpill"`
	IsInvulnerable  bool   `json:"is_invulnerable"`
	IsCurrentPlayer bool   `json:"is_current_player"`
	Score           uint32 `json:"score"`
	Username        string `json:"username"`
}

// MobView carries a mob's single wire-visible attribute.
type MobView struct {
	Direction string `json:"direction"`
}

func actionFromWire(a string) (model.Action, bool) {
	if len(a) != 1 {
		return 0, false
	}
	return model.ActionFromByte(a[0])
}
