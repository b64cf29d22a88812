package match

import "github.com/mauv0809/ladder-league/internal/ladder"

// MatchStore defines the interface for reading and resolving match records.
// Matches are created by the challenge store when a challenge is accepted.
type MatchStore interface {
	Get(matchID string) (*Match, error)
	GetByChallenge(challengeID string) (*Match, error)
	ListByLadder(ladderID string) ([]*Match, error)
	// RecordResult stamps the winner, the winner's post-resolution rank and
	// arrow, the forfeit flag and the completion time. A match result is
	// recorded at most once.
	RecordResult(matchID, winnerID string, winnerRank int, winnerArrow ladder.Arrow, forfeit bool) (*Match, error)
	// SetCharacters records the optional character selections for both sides.
	SetCharacters(matchID, challengerCharacter, challengeeCharacter string) error
}
