package ranking

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/mauv0809/ladder-league/internal/metrics"
	"github.com/mauv0809/ladder-league/internal/pubsub"
)

// New creates a new Engine.
func New(ladders LadderStore, challenges ChallengeStore, matches MatchStore, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Engine {
	return &Engine{
		ladders:    ladders,
		challenges: challenges,
		matches:    matches,
		pubsub:     pubsub,
		notifier:   notifier,
		metrics:    metrics,
	}
}

// JoinLadder places the player at the bottom of the ladder.
func (e *Engine) JoinLadder(ladderID, playerID string, dryRun bool) (*ladder.Rank, error) {
	rank, err := e.ladders.Join(ladderID, playerID)
	if err != nil {
		log.Error("Failed to join ladder", "error", err, "ladderID", ladderID, "playerID", playerID)
		return nil, err
	}
	log.Info("Player joined ladder", "ladderID", ladderID, "playerID", playerID, "position", rank.Position)

	if !dryRun {
		e.pubsub.SendMessage(string(pubsub.EventRosterChanged), pubsub.RosterChangedEvent{
			LadderID: ladderID,
			PlayerID: playerID,
			Joined:   true,
		})
	}
	return rank, nil
}

// LeaveLadder removes the player from the ladder. Their open challenges are
// cancelled first so no opponent stays locked to a player who is gone, then
// the rank table closes the gap they left.
func (e *Engine) LeaveLadder(ladderID, playerID string, dryRun bool) (*ladder.Rank, error) {
	cancelled, err := e.challenges.CancelOpenForPlayer(ladderID, playerID)
	if err != nil {
		log.Error("Failed to cancel open challenges for leaver", "error", err, "ladderID", ladderID, "playerID", playerID)
		return nil, err
	}
	if cancelled > 0 {
		log.Info("Cancelled open challenges for leaver", "ladderID", ladderID, "playerID", playerID, "count", cancelled)
	}

	rank, err := e.ladders.RemoveRank(ladderID, playerID)
	if err != nil {
		log.Error("Failed to remove rank", "error", err, "ladderID", ladderID, "playerID", playerID)
		return nil, err
	}
	log.Info("Player left ladder", "ladderID", ladderID, "playerID", playerID, "vacated_position", rank.Position)

	if !dryRun {
		e.pubsub.SendMessage(string(pubsub.EventRosterChanged), pubsub.RosterChangedEvent{
			LadderID: ladderID,
			PlayerID: playerID,
			Joined:   false,
		})
	}
	return rank, nil
}

// IssueChallenge validates and creates a challenge, then notifies both
// players.
func (e *Engine) IssueChallenge(ladderID, challengerID, challengeeID, note string, dryRun bool) (*challenge.Challenge, error) {
	ch, err := e.challenges.Create(ladderID, challengerID, challengeeID, note)
	if err != nil {
		log.Error("Failed to create challenge", "error", err, "ladderID", ladderID, "challengerID", challengerID, "challengeeID", challengeeID)
		return nil, err
	}
	e.metrics.IncChallengesIssued()
	log.Info("Challenge issued", "challengeID", ch.ID, "ladderID", ladderID, "challengerID", challengerID, "challengeeID", challengeeID)

	if !dryRun {
		e.pubsub.SendMessage(string(pubsub.EventChallengeIssued), challengeEvent(ch))
	}
	e.notifyChallenge(ch, dryRun)
	return ch, nil
}

// AcceptChallenge flips the challenge to accepted and returns the match the
// players will settle it with.
func (e *Engine) AcceptChallenge(challengeID string, dryRun bool) (*match.Match, error) {
	m, err := e.challenges.Accept(challengeID)
	if err != nil {
		log.Error("Failed to accept challenge", "error", err, "challengeID", challengeID)
		return nil, err
	}
	e.metrics.IncChallengesAccepted()
	log.Info("Challenge accepted", "challengeID", challengeID, "matchID", m.ID)

	ch, err := e.challenges.Get(challengeID)
	if err != nil {
		log.Error("Failed to reload accepted challenge", "error", err, "challengeID", challengeID)
		return m, nil
	}

	if !dryRun {
		e.pubsub.SendMessage(string(pubsub.EventChallengeAccepted), challengeEvent(ch))
	}

	challenger, challengee, err := e.participants(ch)
	if err == nil {
		deadline := ""
		if ch.Deadline != nil {
			deadline = ch.Deadline.Format("Monday 02 Jan")
		}
		if err := e.notifier.SendAcceptedNotification(ch, challenger, challengee, deadline, dryRun); err != nil {
			log.Error("Failed to send accepted notification", "error", err, "challengeID", ch.ID)
		}
	}
	return m, nil
}

// CancelChallenge withdraws an open challenge.
func (e *Engine) CancelChallenge(challengeID string) error {
	if err := e.challenges.Cancel(challengeID); err != nil {
		log.Error("Failed to cancel challenge", "error", err, "challengeID", challengeID)
		return err
	}
	log.Info("Challenge cancelled", "challengeID", challengeID)
	return nil
}

// ReportResult resolves a match: the winner selector is interpreted, the
// rank table is updated, the result is stamped on the match and the backing
// challenge is closed.
func (e *Engine) ReportResult(matchID, winnerSelector string, forfeit, dryRun bool) (*match.Match, error) {
	startTime := time.Now()

	m, err := e.matches.Get(matchID)
	if err != nil {
		return nil, err
	}
	if m.Resolved() {
		return nil, match.ErrAlreadyResolved
	}

	winnerID, err := match.ChooseWinner(m, winnerSelector)
	if err != nil {
		log.Error("Invalid winner selector", "error", err, "matchID", matchID, "selector", winnerSelector)
		return nil, err
	}
	loserID := m.ChallengeeID
	if winnerID == m.ChallengeeID {
		loserID = m.ChallengerID
	}

	outcome, err := e.ladders.ApplyMatchOutcome(m.LadderID, winnerID, loserID)
	if err != nil {
		log.Error("Failed to apply match outcome", "error", err, "matchID", matchID)
		return nil, err
	}

	resolved, err := e.matches.RecordResult(matchID, winnerID, outcome.WinnerPosition, outcome.WinnerArrow, forfeit)
	if err != nil {
		log.Error("Failed to record match result", "error", err, "matchID", matchID)
		return nil, err
	}

	if err := e.challenges.CloseForMatch(m.ChallengeID, forfeit); err != nil {
		log.Error("Failed to close challenge for match", "error", err, "matchID", matchID, "challengeID", m.ChallengeID)
	}

	e.metrics.IncMatchesResolved()
	e.metrics.ObserveResolutionDuration(time.Since(startTime).Seconds())
	log.Info("Match resolved", "matchID", matchID, "winnerID", winnerID, "forfeit", forfeit, "swapped", outcome.Swapped)

	if !dryRun {
		e.pubsub.SendMessage(string(pubsub.EventMatchResolved), pubsub.MatchResolvedEvent{
			MatchID:  resolved.ID,
			LadderID: resolved.LadderID,
			WinnerID: winnerID,
			LoserID:  loserID,
			Forfeit:  forfeit,
			Swapped:  outcome.Swapped,
		})
	}

	winner, errW := e.ladders.GetPlayer(winnerID)
	loser, errL := e.ladders.GetPlayer(loserID)
	if errW == nil && errL == nil {
		if err := e.notifier.SendResultNotification(resolved, winner, loser, outcome, dryRun); err != nil {
			log.Error("Failed to send result notification", "error", err, "matchID", matchID)
		}
	}
	return resolved, nil
}

// SweepTimeouts forfeits every unanswered challenge whose response deadline
// has passed. Meant to run on a schedule; running it twice is harmless.
func (e *Engine) SweepTimeouts(asOf time.Time, dryRun bool) (int64, error) {
	if dryRun {
		log.Info("[Dry Run] Would sweep overdue challenges", "asOf", asOf)
		return 0, nil
	}

	expired, err := e.challenges.ExpireOverdue(asOf)
	if err != nil {
		log.Error("Failed to expire overdue challenges", "error", err)
		return 0, err
	}
	e.metrics.IncTimeoutSweeps()
	if expired > 0 {
		e.metrics.AddChallengesExpired(float64(expired))
		log.Info("Swept overdue challenges", "count", expired)
	}
	return expired, nil
}

func (e *Engine) notifyChallenge(ch *challenge.Challenge, dryRun bool) {
	challenger, challengee, err := e.participants(ch)
	if err != nil {
		log.Error("Failed to load challenge participants", "error", err, "challengeID", ch.ID)
		return
	}
	if err := e.notifier.SendChallengeNotification(ch, challenger, challengee, dryRun); err != nil {
		log.Error("Failed to send challenge notification", "error", err, "challengeID", ch.ID)
	}
}

func (e *Engine) participants(ch *challenge.Challenge) (*ladder.Player, *ladder.Player, error) {
	challenger, err := e.ladders.GetPlayer(ch.ChallengerID)
	if err != nil {
		return nil, nil, err
	}
	challengee, err := e.ladders.GetPlayer(ch.ChallengeeID)
	if err != nil {
		return nil, nil, err
	}
	return challenger, challengee, nil
}

func challengeEvent(ch *challenge.Challenge) pubsub.ChallengeEvent {
	return pubsub.ChallengeEvent{
		ChallengeID:  ch.ID,
		LadderID:     ch.LadderID,
		ChallengerID: ch.ChallengerID,
		ChallengeeID: ch.ChallengeeID,
		Status:       string(ch.Status),
	}
}
