package challenge

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/ladder-league/internal/ladder"
)

// store handles all database operations for challenges.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Status is a challenge's lifecycle state. NOT_ACCEPTED and ACCEPTED are
// open; every other status is terminal.
type Status string

const (
	StatusNotAccepted Status = "NOT_ACCEPTED"
	StatusAccepted    Status = "ACCEPTED"
	StatusForfeit     Status = "FORFEIT"
	StatusPostponed   Status = "POSTPONED"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

// Open reports whether the challenge still blocks its participants from
// issuing or receiving other challenges.
func (s Status) Open() bool {
	return s == StatusNotAccepted || s == StatusAccepted
}

// Challenge is a proposed contest between two ranked players on a ladder.
type Challenge struct {
	ID           string     `json:"id"`
	LadderID     string     `json:"ladder_id"`
	ChallengerID string     `json:"challenger_id"`
	ChallengeeID string     `json:"challengee_id"`
	Status       Status     `json:"status"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Note         string     `json:"note,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Involves reports whether the player is a participant of this challenge.
func (c *Challenge) Involves(playerID string) bool {
	return c.ChallengerID == playerID || c.ChallengeeID == playerID
}

// SamePair reports whether the challenge is between exactly these two
// players, in either direction.
func (c *Challenge) SamePair(a, b string) bool {
	return (c.ChallengerID == a && c.ChallengeeID == b) ||
		(c.ChallengerID == b && c.ChallengeeID == a)
}

// ValidationInput is everything the pure challenge validator needs. Rank
// pointers are nil for unranked players.
type ValidationInput struct {
	ChallengerID   string
	ChallengeeID   string
	ChallengerRank *ladder.Rank
	ChallengeeRank *ladder.Rank
	UpRange        int
	DownRange      int
	// OpenChallenges are all open challenges on the ladder.
	OpenChallenges []*Challenge
}
