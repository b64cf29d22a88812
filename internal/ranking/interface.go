package ranking

import (
	"time"

	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/mauv0809/ladder-league/internal/notifier"
)

// LadderStore defines the rank table operations required by the engine.
type LadderStore interface {
	GetPlayer(playerID string) (*ladder.Player, error)
	Join(ladderID, playerID string) (*ladder.Rank, error)
	RemoveRank(ladderID, playerID string) (*ladder.Rank, error)
	ApplyMatchOutcome(ladderID, winnerID, loserID string) (*ladder.MatchOutcome, error)
}

// ChallengeStore defines the challenge operations required by the engine.
type ChallengeStore interface {
	Create(ladderID, challengerID, challengeeID, note string) (*challenge.Challenge, error)
	Get(challengeID string) (*challenge.Challenge, error)
	Accept(challengeID string) (*match.Match, error)
	Cancel(challengeID string) error
	CancelOpenForPlayer(ladderID, playerID string) (int64, error)
	CloseForMatch(challengeID string, forfeit bool) error
	ExpireOverdue(asOf time.Time) (int64, error)
}

// MatchStore defines the match operations required by the engine.
type MatchStore interface {
	Get(matchID string) (*match.Match, error)
	RecordResult(matchID, winnerID string, winnerRank int, winnerArrow ladder.Arrow, forfeit bool) (*match.Match, error)
}

// Notifier defines the notification operations required by the engine.
// This is an alias for the main notifier interface for decoupling.
type Notifier interface {
	notifier.Notifier
}
