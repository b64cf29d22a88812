package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		s.Ladders.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// respondJSON writes the value as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondError maps domain errors onto HTTP status codes. Unknown errors
// become a 500 without leaking their message.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ladder.ErrGameNotFound),
		errors.Is(err, ladder.ErrLadderNotFound),
		errors.Is(err, ladder.ErrPlayerNotFound),
		errors.Is(err, ladder.ErrNotRanked),
		errors.Is(err, challenge.ErrChallengeNotFound),
		errors.Is(err, match.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ladder.ErrAlreadyRanked),
		errors.Is(err, ladder.ErrSignupsClosed),
		errors.Is(err, ladder.ErrLadderFull),
		errors.Is(err, challenge.ErrParticipantBusy),
		errors.Is(err, challenge.ErrChallengeClosed),
		errors.Is(err, match.ErrAlreadyResolved):
		status = http.StatusConflict
	case errors.Is(err, challenge.ErrSelfChallenge),
		errors.Is(err, challenge.ErrPlayerNotRanked),
		errors.Is(err, challenge.ErrChallengeeOutOfRange),
		errors.Is(err, match.ErrInvalidWinner):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		http.Error(w, "Internal server error", status)
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// resolveLadder looks a ladder up by id first and falls back to its slug, so
// both work in query parameters.
func (s *Server) resolveLadder(key string) (*ladder.Ladder, error) {
	l, err := s.Ladders.GetLadder(key)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ladder.ErrLadderNotFound) {
		return nil, err
	}
	return s.Ladders.GetLadderBySlug(key)
}

func (s *Server) CreateGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Name string `json:"name"`
			Abv  string `json:"abv"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Game name is required", http.StatusBadRequest)
			return
		}
		game, err := s.Ladders.CreateGame(req.Name, req.Abv)
		if err != nil {
			log.Error("Failed to create game", "error", err, "name", req.Name)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, game)
	}
}

func (s *Server) LaddersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ladders, err := s.Ladders.ListLadders()
			if err != nil {
				log.Error("Failed to list ladders", "error", err)
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, ladders)
		case http.MethodPost:
			var params ladder.CreateLadderParams
			if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			l, err := s.Ladders.CreateLadder(params)
			if err != nil {
				log.Error("Failed to create ladder", "error", err, "name", params.Name)
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusCreated, l)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) StandingsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("ladder")
		if key == "" {
			http.Error(w, "Ladder is required", http.StatusBadRequest)
			return
		}
		l, err := s.resolveLadder(key)
		if err != nil {
			respondError(w, err)
			return
		}
		standings, err := s.Ladders.Standings(l.ID)
		if err != nil {
			log.Error("Failed to get standings", "error", err, "ladderID", l.ID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, standings)
	}
}

func (s *Server) UpsertPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ID == "" || req.Name == "" {
			http.Error(w, "Player id and name are required", http.StatusBadRequest)
			return
		}
		if err := s.Ladders.UpsertPlayer(req.ID, req.Name); err != nil {
			log.Error("Failed to upsert player", "error", err, "playerID", req.ID)
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

func (s *Server) JoinHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			LadderID string `json:"ladder_id"`
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rank, err := s.Engine.JoinLadder(req.LadderID, req.PlayerID, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, rank)
	}
}

func (s *Server) LeaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			LadderID string `json:"ladder_id"`
			PlayerID string `json:"player_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rank, err := s.Engine.LeaveLadder(req.LadderID, req.PlayerID, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rank)
	}
}

func (s *Server) ChallengeWindowHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ladderKey := r.URL.Query().Get("ladder")
		playerID := r.URL.Query().Get("player")
		if ladderKey == "" || playerID == "" {
			http.Error(w, "Ladder and player are required", http.StatusBadRequest)
			return
		}
		l, err := s.resolveLadder(ladderKey)
		if err != nil {
			respondError(w, err)
			return
		}
		window, err := s.Ladders.ChallengeWindow(l.ID, playerID)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"positions": window})
	}
}

func (s *Server) ListChallengesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ladderKey := r.URL.Query().Get("ladder")
		if ladderKey == "" {
			http.Error(w, "Ladder is required", http.StatusBadRequest)
			return
		}
		l, err := s.resolveLadder(ladderKey)
		if err != nil {
			respondError(w, err)
			return
		}
		var challenges []*challenge.Challenge
		if r.URL.Query().Get("open") == "true" {
			challenges, err = s.Challenges.OpenForLadder(l.ID)
		} else {
			challenges, err = s.Challenges.ListByLadder(l.ID)
		}
		if err != nil {
			log.Error("Failed to list challenges", "error", err, "ladderID", l.ID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, challenges)
	}
}

func (s *Server) IssueChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			LadderID     string `json:"ladder_id"`
			ChallengerID string `json:"challenger_id"`
			ChallengeeID string `json:"challengee_id"`
			Note         string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		ch, err := s.Engine.IssueChallenge(req.LadderID, req.ChallengerID, req.ChallengeeID, req.Note, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, ch)
	}
}

func (s *Server) AcceptChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ChallengeID string `json:"challenge_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		m, err := s.Engine.AcceptChallenge(req.ChallengeID, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) CancelChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ChallengeID string `json:"challenge_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := s.Engine.CancelChallenge(req.ChallengeID); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Challenge cancelled")
	}
}

func (s *Server) PostponeChallengeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			ChallengeID string    `json:"challenge_id"`
			Deadline    time.Time `json:"deadline"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Deadline.Before(time.Now()) {
			http.Error(w, "Deadline must be in the future", http.StatusBadRequest)
			return
		}
		if err := s.Challenges.Postpone(req.ChallengeID, req.Deadline); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Challenge postponed")
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ladderKey := r.URL.Query().Get("ladder")
		if ladderKey == "" {
			http.Error(w, "Ladder is required", http.StatusBadRequest)
			return
		}
		l, err := s.resolveLadder(ladderKey)
		if err != nil {
			respondError(w, err)
			return
		}
		matches, err := s.Matches.ListByLadder(l.ID)
		if err != nil {
			log.Error("Failed to list matches", "error", err, "ladderID", l.ID)
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) ReportResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			MatchID             string `json:"match_id"`
			Winner              string `json:"winner"`
			Forfeit             bool   `json:"forfeit"`
			ChallengerCharacter string `json:"challenger_character"`
			ChallengeeCharacter string `json:"challengee_character"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.ChallengerCharacter != "" || req.ChallengeeCharacter != "" {
			if err := s.Matches.SetCharacters(req.MatchID, req.ChallengerCharacter, req.ChallengeeCharacter); err != nil {
				respondError(w, err)
				return
			}
		}
		m, err := s.Engine.ReportResult(req.MatchID, req.Winner, req.Forfeit, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) SweepTimeoutsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expired, err := s.Engine.SweepTimeouts(time.Now(), isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]int64{"expired": expired})
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// StandingsCommandHandler returns a handler for the /standings Slack command.
func (s *Server) StandingsCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		ladderKey := r.FormValue("text")
		if ladderKey == "" {
			http.Error(w, "Ladder name is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received standings command", "ladder", ladderKey)

		l, err := s.resolveLadder(ladderKey)
		if err != nil {
			respondError(w, err)
			return
		}
		standings, err := s.Ladders.Standings(l.ID)
		if err != nil {
			http.Error(w, "Failed to get standings", http.StatusInternalServerError)
			log.Error("Failed to get standings from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatStandingsResponse(l, standings)
		if err != nil {
			http.Error(w, "Failed to format standings", http.StatusInternalServerError)
			log.Error("Failed to format standings", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}
