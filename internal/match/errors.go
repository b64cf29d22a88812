package match

import "errors"

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrInvalidWinner   = errors.New("the winner of a match must be either the challenger or the challengee")
	ErrAlreadyResolved = errors.New("match already has a recorded result")
	ErrNotResolved     = errors.New("match has no recorded winner")
)
