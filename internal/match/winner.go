package match

// ChooseWinner resolves a winner selector against the match participants.
// The selector is either a side indicator ("challenger"/"challengee") or a
// participant id; anything else fails with ErrInvalidWinner.
func ChooseWinner(m *Match, selector string) (string, error) {
	switch selector {
	case SideChallenger:
		return m.ChallengerID, nil
	case SideChallengee:
		return m.ChallengeeID, nil
	case m.ChallengerID:
		return m.ChallengerID, nil
	case m.ChallengeeID:
		return m.ChallengeeID, nil
	}
	return "", ErrInvalidWinner
}
