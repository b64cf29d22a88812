package challenge

import (
	"time"

	"github.com/mauv0809/ladder-league/internal/match"
)

// ChallengeStore defines the interface for a challenge's full lifecycle.
type ChallengeStore interface {
	// Create validates and inserts a challenge in one transaction. The
	// validation that gates the caller's UI is re-run here, inside the
	// insert's transaction, so two racing creates cannot both succeed.
	Create(ladderID, challengerID, challengeeID, note string) (*Challenge, error)
	Get(challengeID string) (*Challenge, error)
	ListByLadder(ladderID string) ([]*Challenge, error)
	OpenForLadder(ladderID string) ([]*Challenge, error)

	// Accept flips the status and creates the paired match with rank
	// snapshots as one transaction. Accepting an already accepted challenge
	// is a no-op that returns the existing match.
	Accept(challengeID string) (*match.Match, error)
	// Cancel moves an open challenge to CANCELLED.
	Cancel(challengeID string) error
	// CancelOpenForPlayer cancels every open challenge involving the player
	// on the ladder, returning how many were cancelled.
	CancelOpenForPlayer(ladderID, playerID string) (int64, error)
	// CloseForMatch completes or forfeits the accepted challenge backing a
	// resolved match. A challenge that already left ACCEPTED is untouched.
	CloseForMatch(challengeID string, forfeit bool) error
	// Postpone pushes an unanswered challenge's deadline out.
	Postpone(challengeID string, newDeadline time.Time) error
	// ExpireOverdue forfeits every unanswered challenge whose deadline has
	// passed. Idempotent; challenges without a deadline never expire.
	ExpireOverdue(asOf time.Time) (int64, error)
}
