package match

import (
	"database/sql"
	"sync"
	"time"

	"github.com/mauv0809/ladder-league/internal/ladder"
)

// store handles all database operations for match records.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Match is the record of a contest, created exactly once when its challenge
// is accepted. Rank and arrow snapshots are taken at acceptance time and are
// nil when a side was somehow unranked at that moment.
type Match struct {
	ID          string `json:"id"`
	ChallengeID string `json:"challenge_id"`
	LadderID    string `json:"ladder_id"`

	ChallengerID        string        `json:"challenger_id"`
	ChallengerRank      *int          `json:"challenger_rank,omitempty"`
	ChallengerArrow     *ladder.Arrow `json:"challenger_arrow,omitempty"`
	ChallengerCharacter string        `json:"challenger_character,omitempty"`

	ChallengeeID        string        `json:"challengee_id"`
	ChallengeeRank      *int          `json:"challengee_rank,omitempty"`
	ChallengeeArrow     *ladder.Arrow `json:"challengee_arrow,omitempty"`
	ChallengeeCharacter string        `json:"challengee_character,omitempty"`

	WinnerID    *string       `json:"winner_id,omitempty"`
	WinnerRank  *int          `json:"winner_rank,omitempty"`
	WinnerArrow *ladder.Arrow `json:"winner_arrow,omitempty"`

	Forfeit        bool       `json:"forfeit"`
	DateChallenged time.Time  `json:"date_challenged"`
	DateComplete   *time.Time `json:"date_complete,omitempty"`
}

// Resolved reports whether a winner has been recorded.
func (m *Match) Resolved() bool {
	return m.WinnerID != nil
}

// LoserID returns the participant who did not win, or "" while unresolved.
func (m *Match) LoserID() string {
	if m.WinnerID == nil {
		return ""
	}
	if *m.WinnerID == m.ChallengerID {
		return m.ChallengeeID
	}
	return m.ChallengerID
}

// Winner selector side indicators accepted by ChooseWinner, alongside a
// literal participant id.
const (
	SideChallenger = "challenger"
	SideChallengee = "challengee"
)
