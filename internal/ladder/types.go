package ladder

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for ladders, players and the rank table.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Arrow indicates a ranked player's current challenge direction.
type Arrow string

const (
	ArrowUp   Arrow = "UP"
	ArrowDown Arrow = "DOWN"
)

// Privacy controls how a ladder is listed.
type Privacy string

const (
	PrivacyOpen     Privacy = "open"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

// Game is a title that ladders are scoped to.
type Game struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Abv  string `json:"abv"`
	Slug string `json:"slug"`
}

// Player is a roster identity. Authentication lives outside this service.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ladder is a ranked competition scoped to one game.
type Ladder struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Slug                string     `json:"slug"`
	GameID              string     `json:"game_id"`
	OwnerID             string     `json:"owner_id"`
	Description         string     `json:"description"`
	Privacy             Privacy    `json:"privacy"`
	Signups             bool       `json:"signups"`
	MaxPlayers          int        `json:"max_players"`
	UpRange             int        `json:"up_range"`
	DownRange           int        `json:"down_range"`
	ResponseTimeoutDays int        `json:"response_timeout_days"`
	CreatedAt           time.Time  `json:"created_at"`
	EndDate             *time.Time `json:"end_date,omitempty"`
}

// Rank is a player's current position and arrow on a ladder. Position 1 is
// the best; positions per ladder are a contiguous permutation of 1..N.
type Rank struct {
	LadderID string    `json:"ladder_id"`
	PlayerID string    `json:"player_id"`
	Position int       `json:"position"`
	Arrow    Arrow     `json:"arrow"`
	JoinedAt time.Time `json:"joined_at"`
}

// StandingEntry is a rank row joined with the player's name for display.
type StandingEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Position   int    `json:"position"`
	Arrow      Arrow  `json:"arrow"`
}

// CreateLadderParams are the caller-supplied attributes of a new ladder.
type CreateLadderParams struct {
	Name                string  `json:"name"`
	GameID              string  `json:"game_id"`
	OwnerID             string  `json:"owner_id"`
	Description         string  `json:"description"`
	Privacy             Privacy `json:"privacy"`
	Signups             bool    `json:"signups"`
	MaxPlayers          int     `json:"max_players"`
	UpRange             int     `json:"up_range"`
	DownRange           int     `json:"down_range"`
	ResponseTimeoutDays int     `json:"response_timeout_days"`
}

// MatchOutcome describes the rank table mutation applied after a match.
type MatchOutcome struct {
	WinnerPosition int   `json:"winner_position"`
	WinnerArrow    Arrow `json:"winner_arrow"`
	LoserPosition  int   `json:"loser_position"`
	LoserArrow     Arrow `json:"loser_arrow"`
	Swapped        bool  `json:"swapped"`
}
