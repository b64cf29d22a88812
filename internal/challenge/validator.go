package challenge

import "github.com/mauv0809/ladder-league/internal/ladder"

// Validate decides whether a challenge may be created. It is a pure function
// of its input with no side effects, so it can be called speculatively to
// render "can challenge" hints as well as inside the create transaction.
//
// Checks run in a fixed order and the first failure wins, because callers
// surface exactly one reason to the user:
//
//  1. challenger == challengee
//  2. both participants hold a rank
//  3. neither participant has another open challenge (challenger checked
//     first), ignoring the pair's own open challenge with each other
//  4. equal positions (cannot happen while the rank table invariant holds,
//     checked anyway)
//  5. the challengee sits inside the challenger's arrow-determined window
func Validate(in ValidationInput) error {
	if in.ChallengerID == in.ChallengeeID {
		return ErrSelfChallenge
	}

	if in.ChallengerRank == nil {
		return &NotRankedError{Side: SideChallenger, PlayerID: in.ChallengerID}
	}
	if in.ChallengeeRank == nil {
		return &NotRankedError{Side: SideChallengee, PlayerID: in.ChallengeeID}
	}

	for _, open := range in.OpenChallenges {
		if open.SamePair(in.ChallengerID, in.ChallengeeID) {
			continue
		}
		if open.Involves(in.ChallengerID) {
			return &BusyError{PlayerID: in.ChallengerID}
		}
	}
	for _, open := range in.OpenChallenges {
		if open.SamePair(in.ChallengerID, in.ChallengeeID) {
			continue
		}
		if open.Involves(in.ChallengeeID) {
			return &BusyError{PlayerID: in.ChallengeeID}
		}
	}

	rankdiff := in.ChallengerRank.Position - in.ChallengeeRank.Position
	if rankdiff == 0 {
		// Distinct players cannot share a position, but a broken rank table
		// must not produce a legal challenge.
		return &OutOfRangeError{RankDiff: rankdiff}
	}

	if in.ChallengerRank.Arrow == ladder.ArrowDown {
		if rankdiff > 0 || -rankdiff > in.DownRange {
			return &OutOfRangeError{RankDiff: rankdiff}
		}
		return nil
	}
	if rankdiff < 0 || rankdiff > in.UpRange {
		return &OutOfRangeError{RankDiff: rankdiff}
	}
	return nil
}
