package ladder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new LadderStore.
func New(db *sql.DB) LadderStore {
	return &store{
		db: db,
	}
}

func (s *store) CreateGame(name, abv string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game := &Game{
		ID:   uuid.New().String(),
		Name: name,
		Abv:  abv,
		Slug: slugify(name),
	}
	_, err := s.db.Exec("INSERT INTO games (id, name, abv, slug) VALUES (?, ?, ?, ?)",
		game.ID, game.Name, game.Abv, game.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	log.Info("Created game", "id", game.ID, "name", game.Name)
	return game, nil
}

func (s *store) CreateLadder(params CreateLadderParams) (*Ladder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if params.UpRange < 0 || params.DownRange < 0 {
		return nil, ErrInvalidRange
	}
	if params.Privacy == "" {
		params.Privacy = PrivacyOpen
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM games WHERE id = ?)", params.GameID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check game: %w", err)
	}
	if !exists {
		return nil, ErrGameNotFound
	}
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", params.OwnerID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check owner: %w", err)
	}
	if !exists {
		return nil, ErrPlayerNotFound
	}

	l := &Ladder{
		ID:                  uuid.New().String(),
		Name:                params.Name,
		Slug:                slugify(params.Name),
		GameID:              params.GameID,
		OwnerID:             params.OwnerID,
		Description:         params.Description,
		Privacy:             params.Privacy,
		Signups:             params.Signups,
		MaxPlayers:          params.MaxPlayers,
		UpRange:             params.UpRange,
		DownRange:           params.DownRange,
		ResponseTimeoutDays: params.ResponseTimeoutDays,
		CreatedAt:           time.Now(),
	}
	_, err := s.db.Exec(`
		INSERT INTO ladders (id, name, slug, game_id, owner_id, description, privacy, signups, max_players, up_range, down_range, response_timeout_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.Name, l.Slug, l.GameID, l.OwnerID, l.Description, string(l.Privacy), boolToInt(l.Signups),
		l.MaxPlayers, l.UpRange, l.DownRange, l.ResponseTimeoutDays, l.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to create ladder: %w", err)
	}
	log.Info("Created ladder", "id", l.ID, "name", l.Name, "game", l.GameID)
	return l, nil
}

func (s *store) GetLadder(ladderID string) (*Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLadderLocked(ladderID)
}

func (s *store) getLadderLocked(ladderID string) (*Ladder, error) {
	row := s.db.QueryRow(ladderColumns+" WHERE id = ?", ladderID)
	return scanLadder(row)
}

func (s *store) GetLadderBySlug(slug string) (*Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(ladderColumns+" WHERE slug = ?", slug)
	return scanLadder(row)
}

func (s *store) ListLadders() ([]*Ladder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(ladderColumns + " ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query ladders: %w", err)
	}
	defer rows.Close()

	var ladders []*Ladder
	for rows.Next() {
		l, err := scanLadder(rows)
		if err != nil {
			return nil, err
		}
		ladders = append(ladders, l)
	}
	return ladders, rows.Err()
}

func (s *store) UpsertPlayer(playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO players (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, playerID, name)
	if err != nil {
		return fmt.Errorf("failed to upsert player: %w", err)
	}
	return nil
}

func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	err := s.db.QueryRow("SELECT id, name FROM players WHERE id = ?", playerID).Scan(&p.ID, &p.Name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// Join creates a rank at position count+1 with an up arrow.
func (s *store) Join(ladderID, playerID string) (*Rank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var signups, maxPlayers int
	err = tx.QueryRow("SELECT signups, max_players FROM ladders WHERE id = ?", ladderID).Scan(&signups, &maxPlayers)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLadderNotFound
		}
		return nil, fmt.Errorf("failed to load ladder: %w", err)
	}
	if signups == 0 {
		return nil, ErrSignupsClosed
	}

	var exists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM ranks WHERE ladder_id = ? AND player_id = ?)", ladderID, playerID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rank: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRanked
	}

	var count int
	if err = tx.QueryRow("SELECT COUNT(*) FROM ranks WHERE ladder_id = ?", ladderID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count ranks: %w", err)
	}
	if maxPlayers > 0 && count >= maxPlayers {
		return nil, ErrLadderFull
	}

	rank := &Rank{
		LadderID: ladderID,
		PlayerID: playerID,
		Position: count + 1,
		Arrow:    ArrowUp,
		JoinedAt: time.Now(),
	}
	_, err = tx.Exec("INSERT INTO ranks (ladder_id, player_id, position, arrow, joined_at) VALUES (?, ?, ?, ?, ?)",
		rank.LadderID, rank.PlayerID, rank.Position, string(rank.Arrow), rank.JoinedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert rank: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit join: %w", err)
	}
	log.Info("Player joined ladder", "ladderID", ladderID, "playerID", playerID, "position", rank.Position)
	return rank, nil
}

// RemoveRank deletes the rank and renumbers everyone below it so positions
// stay a contiguous 1..N permutation.
func (s *store) RemoveRank(ladderID, playerID string) (*Rank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	removed, err := getRankTx(tx, ladderID, playerID)
	if err != nil {
		return nil, err
	}

	if _, err = tx.Exec("DELETE FROM ranks WHERE ladder_id = ? AND player_id = ?", ladderID, playerID); err != nil {
		return nil, fmt.Errorf("failed to delete rank: %w", err)
	}
	if _, err = tx.Exec("UPDATE ranks SET position = position - 1 WHERE ladder_id = ? AND position > ?", ladderID, removed.Position); err != nil {
		return nil, fmt.Errorf("failed to renumber ranks: %w", err)
	}

	// The bottom player cannot point further down.
	if err = fixBottomArrowTx(tx, ladderID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit leave: %w", err)
	}
	log.Info("Player left ladder", "ladderID", ladderID, "playerID", playerID, "position", removed.Position)
	return removed, nil
}

func (s *store) GetRank(ladderID, playerID string) (*Rank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r        Rank
		arrow    string
		joinedAt int64
	)
	err := s.db.QueryRow("SELECT ladder_id, player_id, position, arrow, joined_at FROM ranks WHERE ladder_id = ? AND player_id = ?",
		ladderID, playerID).Scan(&r.LadderID, &r.PlayerID, &r.Position, &arrow, &joinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotRanked
		}
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}
	r.Arrow = Arrow(arrow)
	r.JoinedAt = time.Unix(joinedAt, 0)
	return &r, nil
}

func (s *store) Standings(ladderID string) ([]StandingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT r.player_id, p.name, r.position, r.arrow
		FROM ranks r
		JOIN players p ON p.id = r.player_id
		WHERE r.ladder_id = ?
		ORDER BY r.position
	`, ladderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var entries []StandingEntry
	for rows.Next() {
		var (
			e     StandingEntry
			arrow string
		)
		if err := rows.Scan(&e.PlayerID, &e.PlayerName, &e.Position, &arrow); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		e.Arrow = Arrow(arrow)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ChallengeWindow returns the occupied positions inside the player's eligible
// challenge range: with an up arrow the up_range positions directly above,
// with a down arrow the down_range positions directly below.
func (s *store) ChallengeWindow(ladderID, playerID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		position int
		arrow    string
	)
	err := s.db.QueryRow("SELECT position, arrow FROM ranks WHERE ladder_id = ? AND player_id = ?",
		ladderID, playerID).Scan(&position, &arrow)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotRanked
		}
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}

	var upRange, downRange int
	err = s.db.QueryRow("SELECT up_range, down_range FROM ladders WHERE id = ?", ladderID).Scan(&upRange, &downRange)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLadderNotFound
		}
		return nil, fmt.Errorf("failed to load ladder: %w", err)
	}

	var lo, hi int
	if Arrow(arrow) == ArrowDown {
		lo, hi = position+1, position+downRange
	} else {
		lo, hi = position-upRange, position-1
	}

	rows, err := s.db.Query("SELECT position FROM ranks WHERE ladder_id = ? AND position BETWEEN ? AND ? ORDER BY position",
		ladderID, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge window: %w", err)
	}
	defer rows.Close()

	var positions []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// ApplyMatchOutcome performs the post-match rank mutation as one transaction:
// swap the two positions when the winner was ranked worse, winner's arrow up,
// loser's arrow down unless the loser now holds the bottom position.
func (s *store) ApplyMatchOutcome(ladderID, winnerID, loserID string) (*MatchOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	winner, err := getRankTx(tx, ladderID, winnerID)
	if err != nil {
		return nil, err
	}
	loser, err := getRankTx(tx, ladderID, loserID)
	if err != nil {
		return nil, err
	}

	var count int
	if err = tx.QueryRow("SELECT COUNT(*) FROM ranks WHERE ladder_id = ?", ladderID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count ranks: %w", err)
	}

	outcome := &MatchOutcome{
		WinnerPosition: winner.Position,
		LoserPosition:  loser.Position,
	}
	if winner.Position > loser.Position {
		outcome.WinnerPosition, outcome.LoserPosition = loser.Position, winner.Position
		outcome.Swapped = true
	}

	outcome.WinnerArrow = ArrowUp
	outcome.LoserArrow = ArrowDown
	if outcome.LoserPosition >= count {
		outcome.LoserArrow = ArrowUp
	}

	_, err = tx.Exec("UPDATE ranks SET position = ?, arrow = ? WHERE ladder_id = ? AND player_id = ?",
		outcome.WinnerPosition, string(outcome.WinnerArrow), ladderID, winnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update winner rank: %w", err)
	}
	_, err = tx.Exec("UPDATE ranks SET position = ?, arrow = ? WHERE ladder_id = ? AND player_id = ?",
		outcome.LoserPosition, string(outcome.LoserArrow), ladderID, loserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update loser rank: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match outcome: %w", err)
	}
	log.Info("Applied match outcome", "ladderID", ladderID, "winnerID", winnerID, "loserID", loserID, "swapped", outcome.Swapped)
	return outcome, nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	defer tx.Rollback()

	for _, table := range []string{"matches", "challenges", "ranks", "ladders", "players", "games"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

const ladderColumns = `SELECT id, name, slug, game_id, owner_id, description, privacy, signups, max_players, up_range, down_range, response_timeout_days, created_at, end_date FROM ladders`

func scanLadder(scanner interface{ Scan(...any) error }) (*Ladder, error) {
	var (
		l         Ladder
		privacy   string
		signups   int
		createdAt int64
		endDate   sql.NullInt64
	)
	err := scanner.Scan(&l.ID, &l.Name, &l.Slug, &l.GameID, &l.OwnerID, &l.Description, &privacy, &signups,
		&l.MaxPlayers, &l.UpRange, &l.DownRange, &l.ResponseTimeoutDays, &createdAt, &endDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrLadderNotFound
		}
		return nil, fmt.Errorf("failed to scan ladder row: %w", err)
	}
	l.Privacy = Privacy(privacy)
	l.Signups = signups != 0
	l.CreatedAt = time.Unix(createdAt, 0)
	if endDate.Valid {
		t := time.Unix(endDate.Int64, 0)
		l.EndDate = &t
	}
	return &l, nil
}

func getRankTx(tx *sql.Tx, ladderID, playerID string) (*Rank, error) {
	var (
		r        Rank
		arrow    string
		joinedAt int64
	)
	err := tx.QueryRow("SELECT ladder_id, player_id, position, arrow, joined_at FROM ranks WHERE ladder_id = ? AND player_id = ?",
		ladderID, playerID).Scan(&r.LadderID, &r.PlayerID, &r.Position, &arrow, &joinedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotRanked
		}
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}
	r.Arrow = Arrow(arrow)
	r.JoinedAt = time.Unix(joinedAt, 0)
	return &r, nil
}

func fixBottomArrowTx(tx *sql.Tx, ladderID string) error {
	var (
		bottomPlayer string
		bottomArrow  string
	)
	err := tx.QueryRow("SELECT player_id, arrow FROM ranks WHERE ladder_id = ? ORDER BY position DESC LIMIT 1", ladderID).
		Scan(&bottomPlayer, &bottomArrow)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil // ladder is now empty
		}
		return fmt.Errorf("failed to find bottom rank: %w", err)
	}
	if Arrow(bottomArrow) == ArrowDown {
		if _, err := tx.Exec("UPDATE ranks SET arrow = ? WHERE ladder_id = ? AND player_id = ?",
			string(ArrowUp), ladderID, bottomPlayer); err != nil {
			return fmt.Errorf("failed to fix bottom arrow: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
