package challenge

import (
	"testing"

	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankAt(playerID string, position int, arrow ladder.Arrow) *ladder.Rank {
	return &ladder.Rank{LadderID: "l-1", PlayerID: playerID, Position: position, Arrow: arrow}
}

func validInput() ValidationInput {
	return ValidationInput{
		ChallengerID:   "p5",
		ChallengeeID:   "p3",
		ChallengerRank: rankAt("p5", 5, ladder.ArrowUp),
		ChallengeeRank: rankAt("p3", 3, ladder.ArrowUp),
		UpRange:        2,
		DownRange:      4,
	}
}

func TestValidate(t *testing.T) {
	t.Run("a clean challenge inside the window passes", func(t *testing.T) {
		assert.NoError(t, Validate(validInput()))
	})

	t.Run("self challenge fails first", func(t *testing.T) {
		in := validInput()
		in.ChallengeeID = in.ChallengerID
		// Even with everything else broken, self beats the other checks.
		in.ChallengerRank = nil
		in.ChallengeeRank = nil
		assert.ErrorIs(t, Validate(in), ErrSelfChallenge)
	})

	t.Run("unranked challenger is reported before an unranked challengee", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = nil
		in.ChallengeeRank = nil

		err := Validate(in)
		require.ErrorIs(t, err, ErrPlayerNotRanked)
		var nr *NotRankedError
		require.ErrorAs(t, err, &nr)
		assert.Equal(t, SideChallenger, nr.Side)
		assert.Equal(t, "p5", nr.PlayerID)
	})

	t.Run("unranked challengee", func(t *testing.T) {
		in := validInput()
		in.ChallengeeRank = nil

		var nr *NotRankedError
		require.ErrorAs(t, Validate(in), &nr)
		assert.Equal(t, SideChallengee, nr.Side)
	})

	t.Run("a challenger with another open challenge is busy", func(t *testing.T) {
		in := validInput()
		in.OpenChallenges = []*Challenge{
			{ID: "other", ChallengerID: "p5", ChallengeeID: "p9", Status: StatusNotAccepted},
		}

		err := Validate(in)
		require.ErrorIs(t, err, ErrParticipantBusy)
		var busy *BusyError
		require.ErrorAs(t, err, &busy)
		assert.Equal(t, "p5", busy.PlayerID)
	})

	t.Run("a challengee locked into an accepted challenge is busy", func(t *testing.T) {
		in := validInput()
		in.OpenChallenges = []*Challenge{
			{ID: "other", ChallengerID: "p9", ChallengeeID: "p3", Status: StatusAccepted},
		}

		var busy *BusyError
		require.ErrorAs(t, Validate(in), &busy)
		assert.Equal(t, "p3", busy.PlayerID)
	})

	t.Run("busy challenger wins over busy challengee", func(t *testing.T) {
		in := validInput()
		in.OpenChallenges = []*Challenge{
			{ID: "a", ChallengerID: "p3", ChallengeeID: "p8", Status: StatusNotAccepted},
			{ID: "b", ChallengerID: "p7", ChallengeeID: "p5", Status: StatusNotAccepted},
		}

		var busy *BusyError
		require.ErrorAs(t, Validate(in), &busy)
		assert.Equal(t, "p5", busy.PlayerID)
	})

	t.Run("the pair's own open challenge does not make them busy", func(t *testing.T) {
		in := validInput()
		in.OpenChallenges = []*Challenge{
			{ID: "ours", ChallengerID: "p3", ChallengeeID: "p5", Status: StatusNotAccepted},
		}
		assert.NoError(t, Validate(in))
	})

	t.Run("up arrow cannot challenge below", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 2, ladder.ArrowUp)
		in.ChallengeeRank = rankAt("p3", 4, ladder.ArrowUp)

		var oor *OutOfRangeError
		require.ErrorAs(t, Validate(in), &oor)
		assert.Equal(t, -2, oor.RankDiff)
	})

	t.Run("up arrow cannot reach past its range", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 6, ladder.ArrowUp)
		in.ChallengeeRank = rankAt("p3", 3, ladder.ArrowUp)

		err := Validate(in)
		assert.ErrorIs(t, err, ErrChallengeeOutOfRange)
	})

	t.Run("up arrow reaches exactly its range", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 5, ladder.ArrowUp)
		in.ChallengeeRank = rankAt("p3", 3, ladder.ArrowUp)
		in.UpRange = 2
		assert.NoError(t, Validate(in))
	})

	t.Run("down arrow challenges below, not above", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 2, ladder.ArrowDown)
		in.ChallengeeRank = rankAt("p3", 5, ladder.ArrowDown)
		in.DownRange = 4
		assert.NoError(t, Validate(in))

		in.ChallengeeRank = rankAt("p3", 1, ladder.ArrowUp)
		assert.ErrorIs(t, Validate(in), ErrChallengeeOutOfRange)
	})

	t.Run("down arrow cannot reach past its range", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 1, ladder.ArrowDown)
		in.ChallengeeRank = rankAt("p3", 7, ladder.ArrowUp)
		in.DownRange = 4
		assert.ErrorIs(t, Validate(in), ErrChallengeeOutOfRange)
	})

	t.Run("equal positions never validate", func(t *testing.T) {
		in := validInput()
		in.ChallengerRank = rankAt("p5", 3, ladder.ArrowUp)
		in.ChallengeeRank = rankAt("p3", 3, ladder.ArrowUp)
		assert.ErrorIs(t, Validate(in), ErrChallengeeOutOfRange)
	})
}
