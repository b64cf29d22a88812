package challenge

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
)

// New creates a new ChallengeStore.
func New(db *sql.DB) ChallengeStore {
	return &store{
		db: db,
	}
}

const challengeColumns = `id, ladder_id, challenger_id, challengee_id, status, deadline, note, created_at, updated_at`

func (s *store) Create(ladderID, challengerID, challengeeID, note string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var upRange, downRange, timeoutDays int
	err = tx.QueryRow("SELECT up_range, down_range, response_timeout_days FROM ladders WHERE id = ?", ladderID).
		Scan(&upRange, &downRange, &timeoutDays)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ladder.ErrLadderNotFound
		}
		return nil, fmt.Errorf("failed to load ladder: %w", err)
	}

	input := ValidationInput{
		ChallengerID:   challengerID,
		ChallengeeID:   challengeeID,
		ChallengerRank: rankTx(tx, ladderID, challengerID),
		ChallengeeRank: rankTx(tx, ladderID, challengeeID),
		UpRange:        upRange,
		DownRange:      downRange,
	}
	input.OpenChallenges, err = openForLadderTx(tx, ladderID)
	if err != nil {
		return nil, err
	}
	if err = Validate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &Challenge{
		ID:           uuid.New().String(),
		LadderID:     ladderID,
		ChallengerID: challengerID,
		ChallengeeID: challengeeID,
		Status:       StatusNotAccepted,
		Note:         note,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var deadline any
	if timeoutDays > 0 {
		d := now.AddDate(0, 0, timeoutDays)
		c.Deadline = &d
		deadline = d.Unix()
	}

	_, err = tx.Exec(`
		INSERT INTO challenges (id, ladder_id, challenger_id, challengee_id, status, deadline, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.LadderID, c.ChallengerID, c.ChallengeeID, string(c.Status), deadline, c.Note, now.Unix(), now.Unix())
	if err != nil {
		// The partial unique index on open pairs backstops races the
		// validation above cannot see.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, &BusyError{PlayerID: challengerID}
		}
		return nil, fmt.Errorf("failed to insert challenge: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit challenge: %w", err)
	}
	log.Info("Created challenge", "challengeID", c.ID, "ladderID", ladderID, "challenger", challengerID, "challengee", challengeeID)
	return c, nil
}

func (s *store) Get(challengeID string) (*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+challengeColumns+" FROM challenges WHERE id = ?", challengeID)
	c, err := scanChallenge(row)
	if err == sql.ErrNoRows {
		return nil, ErrChallengeNotFound
	}
	return c, err
}

func (s *store) ListByLadder(ladderID string) ([]*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+challengeColumns+" FROM challenges WHERE ladder_id = ? ORDER BY created_at DESC", ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()
	return collectChallenges(rows)
}

func (s *store) OpenForLadder(ladderID string) ([]*Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+challengeColumns+" FROM challenges WHERE ladder_id = ? AND status IN (?, ?) ORDER BY created_at",
		ladderID, string(StatusNotAccepted), string(StatusAccepted))
	if err != nil {
		return nil, fmt.Errorf("failed to query open challenges: %w", err)
	}
	defer rows.Close()
	return collectChallenges(rows)
}

// Accept flips the challenge to ACCEPTED and creates the paired match in the
// same transaction; both rows commit or neither. The match snapshots each
// side's current position and arrow, left null for a side that is somehow
// unranked.
func (s *store) Accept(challengeID string) (*match.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT "+challengeColumns+" FROM challenges WHERE id = ?", challengeID)
	c, err := scanChallenge(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	switch c.Status {
	case StatusNotAccepted:
		now := time.Now()
		_, err = tx.Exec("UPDATE challenges SET status = ?, updated_at = ? WHERE id = ?",
			string(StatusAccepted), now.Unix(), challengeID)
		if err != nil {
			return nil, fmt.Errorf("failed to accept challenge: %w", err)
		}
	case StatusAccepted:
		// Idempotent re-accept; fall through to the match get-or-create.
	default:
		return nil, ErrChallengeClosed
	}

	m, err := getOrCreateMatchTx(tx, c)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit accept: %w", err)
	}
	log.Info("Accepted challenge", "challengeID", challengeID, "matchID", m.ID)
	return m, nil
}

func (s *store) Cancel(challengeID string) error {
	return s.transition(challengeID, StatusCancelled)
}

func (s *store) CancelOpenForPlayer(ladderID, playerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE challenges SET status = ?, updated_at = ?
		WHERE ladder_id = ? AND status IN (?, ?) AND (challenger_id = ? OR challengee_id = ?)
	`, string(StatusCancelled), time.Now().Unix(), ladderID,
		string(StatusNotAccepted), string(StatusAccepted), playerID, playerID)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel open challenges: %w", err)
	}
	cancelled, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if cancelled > 0 {
		log.Info("Cancelled open challenges for leaving player", "ladderID", ladderID, "playerID", playerID, "count", cancelled)
	}
	return cancelled, nil
}

func (s *store) CloseForMatch(challengeID string, forfeit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := StatusCompleted
	if forfeit {
		next = StatusForfeit
	}
	// Only an ACCEPTED challenge is closed here; anything else already left
	// the accepted state and is not touched again.
	_, err := s.db.Exec("UPDATE challenges SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		string(next), time.Now().Unix(), challengeID, string(StatusAccepted))
	if err != nil {
		return fmt.Errorf("failed to close challenge: %w", err)
	}
	return nil
}

func (s *store) Postpone(challengeID string, newDeadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE challenges SET deadline = ?, updated_at = ? WHERE id = ? AND status = ?",
		newDeadline.Unix(), time.Now().Unix(), challengeID, string(StatusNotAccepted))
	if err != nil {
		return fmt.Errorf("failed to postpone challenge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrChallengeClosed
	}
	return nil
}

func (s *store) ExpireOverdue(asOf time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE challenges SET status = ?, updated_at = ?
		WHERE status = ? AND deadline IS NOT NULL AND deadline <= ?
	`, string(StatusForfeit), asOf.Unix(), string(StatusNotAccepted), asOf.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to expire challenges: %w", err)
	}
	expired, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return expired, nil
}

func (s *store) transition(challengeID string, next Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE challenges SET status = ?, updated_at = ? WHERE id = ? AND status IN (?, ?)",
		string(next), time.Now().Unix(), challengeID, string(StatusNotAccepted), string(StatusAccepted))
	if err != nil {
		return fmt.Errorf("failed to update challenge status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM challenges WHERE id = ?)", challengeID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check challenge: %w", err)
		}
		if !exists {
			return ErrChallengeNotFound
		}
		return ErrChallengeClosed
	}
	log.Info("Updated challenge status", "challengeID", challengeID, "status", next)
	return nil
}

func getOrCreateMatchTx(tx *sql.Tx, c *Challenge) (*match.Match, error) {
	row := tx.QueryRow("SELECT "+match.Columns+" FROM matches WHERE challenge_id = ?", c.ID)
	existing, err := match.Scan(row)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up paired match: %w", err)
	}

	challengerRank, challengerArrow := snapshotRankTx(tx, c.LadderID, c.ChallengerID)
	challengeeRank, challengeeArrow := snapshotRankTx(tx, c.LadderID, c.ChallengeeID)

	id := uuid.New().String()
	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO matches (id, challenge_id, ladder_id,
			challenger_id, challenger_rank, challenger_arrow,
			challengee_id, challengee_rank, challengee_arrow,
			date_challenged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, c.ID, c.LadderID,
		c.ChallengerID, challengerRank, challengerArrow,
		c.ChallengeeID, challengeeRank, challengeeArrow,
		now.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create paired match: %w", err)
	}

	row = tx.QueryRow("SELECT "+match.Columns+" FROM matches WHERE id = ?", id)
	return match.Scan(row)
}

// snapshotRankTx returns nullable insert values for the player's current
// position and arrow.
func snapshotRankTx(tx *sql.Tx, ladderID, playerID string) (any, any) {
	var (
		position int
		arrow    string
	)
	err := tx.QueryRow("SELECT position, arrow FROM ranks WHERE ladder_id = ? AND player_id = ?",
		ladderID, playerID).Scan(&position, &arrow)
	if err != nil {
		return nil, nil
	}
	return position, arrow
}

func rankTx(tx *sql.Tx, ladderID, playerID string) *ladder.Rank {
	var (
		r     ladder.Rank
		arrow string
	)
	err := tx.QueryRow("SELECT ladder_id, player_id, position, arrow FROM ranks WHERE ladder_id = ? AND player_id = ?",
		ladderID, playerID).Scan(&r.LadderID, &r.PlayerID, &r.Position, &arrow)
	if err != nil {
		return nil
	}
	r.Arrow = ladder.Arrow(arrow)
	return &r
}

func openForLadderTx(tx *sql.Tx, ladderID string) ([]*Challenge, error) {
	rows, err := tx.Query("SELECT "+challengeColumns+" FROM challenges WHERE ladder_id = ? AND status IN (?, ?)",
		ladderID, string(StatusNotAccepted), string(StatusAccepted))
	if err != nil {
		return nil, fmt.Errorf("failed to query open challenges: %w", err)
	}
	defer rows.Close()
	return collectChallenges(rows)
}

func collectChallenges(rows *sql.Rows) ([]*Challenge, error) {
	var challenges []*Challenge
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func scanChallenge(scanner interface{ Scan(...any) error }) (*Challenge, error) {
	var (
		c                    Challenge
		status               string
		deadline             sql.NullInt64
		createdAt, updatedAt int64
	)
	err := scanner.Scan(&c.ID, &c.LadderID, &c.ChallengerID, &c.ChallengeeID, &status, &deadline, &c.Note, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	if deadline.Valid {
		t := time.Unix(deadline.Int64, 0)
		c.Deadline = &t
	}
	c.CreatedAt = time.Unix(createdAt, 0)
	c.UpdatedAt = time.Unix(updatedAt, 0)
	return &c, nil
}
