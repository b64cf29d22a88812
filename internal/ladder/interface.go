package ladder

// LadderStore defines the interface for ladders, players and the rank table.
type LadderStore interface {
	CreateGame(name, abv string) (*Game, error)
	CreateLadder(params CreateLadderParams) (*Ladder, error)
	GetLadder(ladderID string) (*Ladder, error)
	GetLadderBySlug(slug string) (*Ladder, error)
	ListLadders() ([]*Ladder, error)

	UpsertPlayer(playerID, name string) error
	GetPlayer(playerID string) (*Player, error)

	// Join creates a rank at the bottom of the ladder with an up arrow.
	Join(ladderID, playerID string) (*Rank, error)
	// RemoveRank deletes the player's rank, closes the gap by shifting every
	// worse-ranked player up one position and forces the new bottom player's
	// arrow up. Cancelling the leaver's open challenges is the engine's job.
	RemoveRank(ladderID, playerID string) (*Rank, error)
	GetRank(ladderID, playerID string) (*Rank, error)
	Standings(ladderID string) ([]StandingEntry, error)
	// ChallengeWindow returns the positions the player may currently
	// challenge, in ladder order.
	ChallengeWindow(ladderID, playerID string) ([]int, error)

	// ApplyMatchOutcome swaps the two players' positions when the winner was
	// ranked worse, points the winner's arrow up and the loser's arrow down
	// unless the loser now sits at the bottom of the ladder.
	ApplyMatchOutcome(ladderID, winnerID, loserID string) (*MatchOutcome, error)

	Clear()
}
