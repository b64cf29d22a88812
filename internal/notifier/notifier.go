package notifier

import (
	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For new challenges
	SendChallengeNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, dryRun bool) error
	// For accepted challenges
	SendAcceptedNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, deadline string, dryRun bool) error
	// For resolved matches
	SendResultNotification(m *match.Match, winner, loser *ladder.Player, outcome *ladder.MatchOutcome, dryRun bool) error
	// For current standings
	SendStandings(l *ladder.Ladder, standings []ladder.StandingEntry, dryRun bool) error

	// FormatStandingsResponse formats a standings message for an inline response.
	FormatStandingsResponse(l *ladder.Ladder, standings []ladder.StandingEntry) (any, error)
}
