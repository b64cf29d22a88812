package challenge

import (
	"errors"
	"fmt"
)

// Expected validation failures, surfaced to the caller as user-facing
// messages. Match them with errors.Is; the typed variants below carry
// payloads for errors.As.
var (
	ErrSelfChallenge        = errors.New("a player cannot challenge themselves")
	ErrPlayerNotRanked      = errors.New("player is not ranked on this ladder")
	ErrParticipantBusy      = errors.New("player already has an open challenge on this ladder")
	ErrChallengeeOutOfRange = errors.New("challengee is outside the allowed challenge range")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrChallengeClosed      = errors.New("challenge is no longer open")
)

// Side identifies which participant a validation failure refers to.
type Side string

const (
	SideChallenger Side = "challenger"
	SideChallengee Side = "challengee"
)

// NotRankedError reports which side of the challenge lacks a rank.
type NotRankedError struct {
	Side     Side
	PlayerID string
}

func (e *NotRankedError) Error() string {
	return fmt.Sprintf("%s %s is not ranked on this ladder", e.Side, e.PlayerID)
}

func (e *NotRankedError) Unwrap() error { return ErrPlayerNotRanked }

// BusyError reports which participant already has an open challenge.
type BusyError struct {
	PlayerID string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("player %s already has an open challenge on this ladder", e.PlayerID)
}

func (e *BusyError) Unwrap() error { return ErrParticipantBusy }

// OutOfRangeError reports the offending rank difference
// (challenger position minus challengee position).
type OutOfRangeError struct {
	RankDiff int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("challengee cannot be challenged from this position (rank difference %d)", e.RankDiff)
}

func (e *OutOfRangeError) Unwrap() error { return ErrChallengeeOutOfRange }
