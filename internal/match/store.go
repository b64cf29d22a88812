package match

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-league/internal/ladder"
)

// New creates a new MatchStore.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

// Columns is the canonical select list for match rows, shared with the
// challenge store which inserts matches at acceptance time.
const Columns = `id, challenge_id, ladder_id,
	challenger_id, challenger_rank, challenger_arrow, challenger_character,
	challengee_id, challengee_rank, challengee_arrow, challengee_character,
	winner_id, winner_rank, winner_arrow, forfeit, date_challenged, date_complete`

func (s *store) Get(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+Columns+" FROM matches WHERE id = ?", matchID)
	m, err := Scan(row)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	return m, err
}

func (s *store) GetByChallenge(challengeID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+Columns+" FROM matches WHERE challenge_id = ?", challengeID)
	m, err := Scan(row)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	return m, err
}

func (s *store) ListByLadder(ladderID string) ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT "+Columns+" FROM matches WHERE ladder_id = ? ORDER BY date_challenged DESC", ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := Scan(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) RecordResult(matchID, winnerID string, winnerRank int, winnerArrow ladder.Arrow, forfeit bool) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT "+Columns+" FROM matches WHERE id = ?", matchID)
	m, err := Scan(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if m.Resolved() {
		return nil, ErrAlreadyResolved
	}
	if winnerID != m.ChallengerID && winnerID != m.ChallengeeID {
		return nil, ErrInvalidWinner
	}

	now := time.Now()
	_, err = tx.Exec(`
		UPDATE matches
		SET winner_id = ?, winner_rank = ?, winner_arrow = ?, forfeit = ?, date_complete = ?
		WHERE id = ?
	`, winnerID, winnerRank, string(winnerArrow), boolToInt(forfeit), now.Unix(), matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to record match result: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match result: %w", err)
	}

	m.WinnerID = &winnerID
	m.WinnerRank = &winnerRank
	m.WinnerArrow = &winnerArrow
	m.Forfeit = forfeit
	m.DateComplete = &now
	log.Info("Recorded match result", "matchID", matchID, "winnerID", winnerID, "forfeit", forfeit)
	return m, nil
}

func (s *store) SetCharacters(matchID, challengerCharacter, challengeeCharacter string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET challenger_character = ?, challengee_character = ? WHERE id = ?",
		challengerCharacter, challengeeCharacter, matchID)
	if err != nil {
		return fmt.Errorf("failed to set characters: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// Scan reads one match row using the Columns select list.
func Scan(scanner interface{ Scan(...any) error }) (*Match, error) {
	var (
		m                                           Match
		challengerRank, challengeeRank, winnerRank  sql.NullInt64
		challengerArrow, challengeeArrow, winnerArr sql.NullString
		winnerID                                    sql.NullString
		forfeit                                     int
		dateChallenged                              int64
		dateComplete                                sql.NullInt64
	)
	err := scanner.Scan(
		&m.ID, &m.ChallengeID, &m.LadderID,
		&m.ChallengerID, &challengerRank, &challengerArrow, &m.ChallengerCharacter,
		&m.ChallengeeID, &challengeeRank, &challengeeArrow, &m.ChallengeeCharacter,
		&winnerID, &winnerRank, &winnerArr, &forfeit, &dateChallenged, &dateComplete,
	)
	if err != nil {
		return nil, err
	}

	m.ChallengerRank = nullInt(challengerRank)
	m.ChallengerArrow = nullArrow(challengerArrow)
	m.ChallengeeRank = nullInt(challengeeRank)
	m.ChallengeeArrow = nullArrow(challengeeArrow)
	if winnerID.Valid {
		m.WinnerID = &winnerID.String
	}
	m.WinnerRank = nullInt(winnerRank)
	m.WinnerArrow = nullArrow(winnerArr)
	m.Forfeit = forfeit != 0
	m.DateChallenged = time.Unix(dateChallenged, 0)
	if dateComplete.Valid {
		t := time.Unix(dateComplete.Int64, 0)
		m.DateComplete = &t
	}
	return &m, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullArrow(v sql.NullString) *ladder.Arrow {
	if !v.Valid {
		return nil
	}
	a := ladder.Arrow(v.String)
	return &a
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
