package challenge

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

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

// setupLadder creates a ladder with n ranked players p1..pn and returns both
// stores.
func setupLadder(t *testing.T, db *sql.DB, n int, params ladder.CreateLadderParams) (ladder.LadderStore, ChallengeStore, *ladder.Ladder) {
	t.Helper()

	ladders := ladder.New(db)
	challenges := New(db)

	game, err := ladders.CreateGame("Tekken 8", "T8")
	require.NoError(t, err)

	params.GameID = game.ID
	if params.Name == "" {
		params.Name = "Test Ladder"
	}
	if params.OwnerID == "" {
		params.OwnerID = "p1"
	}
	params.Signups = true
	require.NoError(t, ladders.UpsertPlayer(params.OwnerID, "Player "+params.OwnerID))
	l, err := ladders.CreateLadder(params)
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, ladders.UpsertPlayer(id, "Player "+id))
		_, err := ladders.Join(l.ID, id)
		require.NoError(t, err)
	}
	return ladders, challenges, l
}

func TestCreate(t *testing.T) {
	t.Run("deadline follows the ladder's response timeout", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4, ResponseTimeoutDays: 3})

		ch, err := challenges.Create(l.ID, "p5", "p3", "see you friday")
		require.NoError(t, err)
		assert.Equal(t, StatusNotAccepted, ch.Status)
		assert.Equal(t, "see you friday", ch.Note)
		require.NotNil(t, ch.Deadline)
		expected := time.Now().AddDate(0, 0, 3)
		assert.WithinDuration(t, expected, *ch.Deadline, time.Minute)
	})

	t.Run("no timeout means no deadline", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4, ResponseTimeoutDays: 0})

		ch, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)
		assert.Nil(t, ch.Deadline)
	})

	t.Run("validation runs inside the create", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		_, err := challenges.Create(l.ID, "p5", "p1", "")
		assert.ErrorIs(t, err, ErrChallengeeOutOfRange)

		_, err = challenges.Create(l.ID, "p5", "p5", "")
		assert.ErrorIs(t, err, ErrSelfChallenge)

		_, err = challenges.Create(l.ID, "p5", "ghost", "")
		assert.ErrorIs(t, err, ErrPlayerNotRanked)
	})

	t.Run("participants of an open challenge cannot start another", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		_, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)

		_, err = challenges.Create(l.ID, "p5", "p4", "")
		assert.ErrorIs(t, err, ErrParticipantBusy)

		_, err = challenges.Create(l.ID, "p4", "p3", "")
		assert.ErrorIs(t, err, ErrParticipantBusy)
	})

	t.Run("the same pair cannot have two open challenges", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		_, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)

		// The pure validator skips the pair's own open challenge; the partial
		// unique index catches the duplicate insert.
		_, err = challenges.Create(l.ID, "p5", "p3", "")
		assert.ErrorIs(t, err, ErrParticipantBusy)
	})

	t.Run("unknown ladder", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		challenges := New(db)

		_, err := challenges.Create("nope", "p1", "p2", "")
		assert.ErrorIs(t, err, ladder.ErrLadderNotFound)
	})
}

func TestAccept(t *testing.T) {
	t.Run("accept flips the status and snapshots ranks into the match", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		ch, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)

		m, err := challenges.Accept(ch.ID)
		require.NoError(t, err)
		assert.Equal(t, ch.ID, m.ChallengeID)
		assert.Equal(t, "p5", m.ChallengerID)
		assert.Equal(t, "p3", m.ChallengeeID)
		require.NotNil(t, m.ChallengerRank)
		assert.Equal(t, 5, *m.ChallengerRank)
		require.NotNil(t, m.ChallengeeRank)
		assert.Equal(t, 3, *m.ChallengeeRank)
		assert.False(t, m.Resolved())

		got, err := challenges.Get(ch.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusAccepted, got.Status)
	})

	t.Run("double accept is a no-op returning the same match", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		ch, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)

		first, err := challenges.Accept(ch.ID)
		require.NoError(t, err)
		second, err := challenges.Accept(ch.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("a cancelled challenge cannot be accepted", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

		ch, err := challenges.Create(l.ID, "p5", "p3", "")
		require.NoError(t, err)
		require.NoError(t, challenges.Cancel(ch.ID))

		_, err = challenges.Accept(ch.ID)
		assert.ErrorIs(t, err, ErrChallengeClosed)
	})

	t.Run("unknown challenge", func(t *testing.T) {
		db, teardown := setupTestDB(t)
		defer teardown()
		challenges := New(db)

		_, err := challenges.Accept("nope")
		assert.ErrorIs(t, err, ErrChallengeNotFound)
	})
}

func TestCancel(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

	ch, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)

	require.NoError(t, challenges.Cancel(ch.ID))
	got, err := challenges.Get(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// Cancelling again, or cancelling something unknown, both fail.
	assert.ErrorIs(t, challenges.Cancel(ch.ID), ErrChallengeClosed)
	assert.ErrorIs(t, challenges.Cancel("nope"), ErrChallengeNotFound)

	// The pair is free again.
	_, err = challenges.Create(l.ID, "p5", "p3", "")
	assert.NoError(t, err)
}

func TestCancelOpenForPlayer(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 6, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

	ch1, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)
	_, err = challenges.Create(l.ID, "p6", "p4", "")
	require.NoError(t, err)

	cancelled, err := challenges.CancelOpenForPlayer(l.ID, "p3")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled)

	got, err := challenges.Get(ch1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	open, err := challenges.OpenForLadder(l.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "p6", open[0].ChallengerID)

	// Nothing left to cancel for p3.
	cancelled, err = challenges.CancelOpenForPlayer(l.ID, "p3")
	require.NoError(t, err)
	assert.Zero(t, cancelled)
}

func TestCloseForMatch(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

	ch, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)
	_, err = challenges.Accept(ch.ID)
	require.NoError(t, err)

	require.NoError(t, challenges.CloseForMatch(ch.ID, false))
	got, err := challenges.Get(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)

	// A second close does not move the status again.
	require.NoError(t, challenges.CloseForMatch(ch.ID, true))
	got, err = challenges.Get(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestCloseForMatch_Forfeit(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4})

	ch, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)
	_, err = challenges.Accept(ch.ID)
	require.NoError(t, err)

	require.NoError(t, challenges.CloseForMatch(ch.ID, true))
	got, err := challenges.Get(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusForfeit, got.Status)
}

func TestPostpone(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 5, ladder.CreateLadderParams{UpRange: 2, DownRange: 4, ResponseTimeoutDays: 3})

	ch, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)

	newDeadline := time.Now().AddDate(0, 0, 10)
	require.NoError(t, challenges.Postpone(ch.ID, newDeadline))

	got, err := challenges.Get(ch.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusNotAccepted, got.Status)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, newDeadline.Unix(), got.Deadline.Unix())

	// Once accepted, the response deadline can no longer move.
	_, err = challenges.Accept(ch.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, challenges.Postpone(ch.ID, newDeadline), ErrChallengeClosed)
}

func TestExpireOverdue(t *testing.T) {
	db, teardown := setupTestDB(t)
	defer teardown()
	_, challenges, l := setupLadder(t, db, 6, ladder.CreateLadderParams{UpRange: 2, DownRange: 4, ResponseTimeoutDays: 3})

	overdue, err := challenges.Create(l.ID, "p5", "p3", "")
	require.NoError(t, err)
	accepted, err := challenges.Create(l.ID, "p6", "p4", "")
	require.NoError(t, err)
	_, err = challenges.Accept(accepted.ID)
	require.NoError(t, err)

	// Nothing is overdue yet.
	expired, err := challenges.ExpireOverdue(time.Now())
	require.NoError(t, err)
	assert.Zero(t, expired)

	// A week later, the unanswered challenge forfeits; the accepted one is
	// untouched because its players are already committed to a match.
	expired, err = challenges.ExpireOverdue(time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := challenges.Get(overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusForfeit, got.Status)

	got, err = challenges.Get(accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, got.Status)

	// Running the sweep again finds nothing.
	expired, err = challenges.ExpireOverdue(time.Now().AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Zero(t, expired)
}
