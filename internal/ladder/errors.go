package ladder

import "errors"

// Expected, recoverable precondition failures. Callers surface these to the
// user; they are never logged as system errors.
var (
	ErrGameNotFound   = errors.New("game not found")
	ErrLadderNotFound = errors.New("ladder not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrAlreadyRanked  = errors.New("player is already ranked on this ladder")
	ErrNotRanked      = errors.New("player is not ranked on this ladder")
	ErrSignupsClosed  = errors.New("ladder is not accepting signups")
	ErrLadderFull     = errors.New("ladder has reached its player limit")
	ErrInvalidRange   = errors.New("challenge ranges must be non-negative")
)
