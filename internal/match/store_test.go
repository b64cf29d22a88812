package match

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/mauv0809/ladder-league/internal/database"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return db, func() {
		teardown()
	}
}

// seedMatch inserts a ladder with two ranked players and an accepted
// challenge/match pair, bypassing the challenge store to keep this package's
// tests self-contained.
func seedMatch(t *testing.T, db *sql.DB) (MatchStore, *Match) {
	t.Helper()

	ladders := ladder.New(db)
	matches := New(db)

	game, err := ladders.CreateGame("Tekken 8", "T8")
	require.NoError(t, err)
	require.NoError(t, ladders.UpsertPlayer("p1", "Player p1"))
	l, err := ladders.CreateLadder(ladder.CreateLadderParams{
		Name: "Test Ladder", GameID: game.ID, OwnerID: "p1",
		Signups: true, UpRange: 2, DownRange: 4,
	})
	require.NoError(t, err)
	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, ladders.UpsertPlayer(id, "Player "+id))
		_, err := ladders.Join(l.ID, id)
		require.NoError(t, err)
	}

	_, err = db.Exec(`INSERT INTO challenges (id, ladder_id, challenger_id, challengee_id, status, note, created_at, updated_at)
		VALUES ('ch-1', ?, 'p2', 'p1', 'ACCEPTED', '', 0, 0)`, l.ID)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO matches (id, challenge_id, ladder_id, challenger_id, challenger_rank, challenger_arrow, challengee_id, challengee_rank, challengee_arrow, date_challenged)
		VALUES ('m-1', 'ch-1', ?, 'p2', 2, 'UP', 'p1', 1, 'UP', 0)`, l.ID)
	require.NoError(t, err)

	m, err := matches.Get("m-1")
	require.NoError(t, err)
	return matches, m
}

func TestChooseWinner(t *testing.T) {
	m := &Match{ChallengerID: "p2", ChallengeeID: "p1"}

	t.Run("side indicators", func(t *testing.T) {
		winner, err := ChooseWinner(m, SideChallenger)
		require.NoError(t, err)
		assert.Equal(t, "p2", winner)

		winner, err = ChooseWinner(m, SideChallengee)
		require.NoError(t, err)
		assert.Equal(t, "p1", winner)
	})

	t.Run("participant ids", func(t *testing.T) {
		winner, err := ChooseWinner(m, "p1")
		require.NoError(t, err)
		assert.Equal(t, "p1", winner)
	})

	t.Run("anything else is rejected", func(t *testing.T) {
		_, err := ChooseWinner(m, "p9")
		assert.ErrorIs(t, err, ErrInvalidWinner)
		_, err = ChooseWinner(m, "")
		assert.ErrorIs(t, err, ErrInvalidWinner)
	})
}

func TestRecordResult(t *testing.T) {
	t.Run("stamps the winner and completion time", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		matches, m := seedMatch(t, db)

		resolved, err := matches.RecordResult(m.ID, "p2", 1, ladder.ArrowUp, false)
		require.NoError(t, err)
		require.NotNil(t, resolved.WinnerID)
		assert.Equal(t, "p2", *resolved.WinnerID)
		assert.Equal(t, 1, *resolved.WinnerRank)
		assert.Equal(t, ladder.ArrowUp, *resolved.WinnerArrow)
		assert.False(t, resolved.Forfeit)
		assert.NotNil(t, resolved.DateComplete)
		assert.Equal(t, "p1", resolved.LoserID())

		// The row round-trips.
		got, err := matches.Get(m.ID)
		require.NoError(t, err)
		assert.True(t, got.Resolved())
		assert.Equal(t, "p2", *got.WinnerID)
	})

	t.Run("a result is recorded at most once", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		matches, m := seedMatch(t, db)

		_, err := matches.RecordResult(m.ID, "p2", 1, ladder.ArrowUp, false)
		require.NoError(t, err)
		_, err = matches.RecordResult(m.ID, "p1", 1, ladder.ArrowUp, false)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
	})

	t.Run("the winner must be a participant", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		matches, m := seedMatch(t, db)

		_, err := matches.RecordResult(m.ID, "p9", 1, ladder.ArrowUp, false)
		assert.ErrorIs(t, err, ErrInvalidWinner)
	})

	t.Run("forfeit flag persists", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		matches, m := seedMatch(t, db)

		resolved, err := matches.RecordResult(m.ID, "p1", 1, ladder.ArrowUp, true)
		require.NoError(t, err)
		assert.True(t, resolved.Forfeit)
	})

	t.Run("unknown match", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		matches := New(db)

		_, err := matches.RecordResult("nope", "p1", 1, ladder.ArrowUp, false)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})
}

func TestSetCharacters(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	matches, m := seedMatch(t, db)

	require.NoError(t, matches.SetCharacters(m.ID, "King", "Kazuya"))
	got, err := matches.Get(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "King", got.ChallengerCharacter)
	assert.Equal(t, "Kazuya", got.ChallengeeCharacter)

	assert.ErrorIs(t, matches.SetCharacters("nope", "a", "b"), ErrMatchNotFound)
}

func TestGetByChallenge(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	matches, m := seedMatch(t, db)

	got, err := matches.GetByChallenge(m.ChallengeID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)

	_, err = matches.GetByChallenge("nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)

	list, err := matches.ListByLadder(m.LadderID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, m.ID, list[0].ID)
}
