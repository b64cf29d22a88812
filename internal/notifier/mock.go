package notifier

import (
	"sync"

	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	SendChallengeNotificationCalls []struct {
		Challenge  *challenge.Challenge
		Challenger *ladder.Player
		Challengee *ladder.Player
	}
	SendAcceptedNotificationCalls []struct {
		Challenge  *challenge.Challenge
		Challenger *ladder.Player
		Challengee *ladder.Player
		Deadline   string
	}
	SendResultNotificationCalls []struct {
		Match   *match.Match
		Winner  *ladder.Player
		Loser   *ladder.Player
		Outcome *ladder.MatchOutcome
	}
	SendStandingsCalls []struct {
		Ladder    *ladder.Ladder
		Standings []ladder.StandingEntry
	}

	// Spies
	SendChallengeNotificationFunc func(ch *challenge.Challenge, challenger, challengee *ladder.Player, dryRun bool) error
	SendResultNotificationFunc    func(m *match.Match, winner, loser *ladder.Player, outcome *ladder.MatchOutcome, dryRun bool) error
	FormatStandingsResponseFunc   func(l *ladder.Ladder, standings []ladder.StandingEntry) (any, error)

	LastStandingsResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendChallengeNotificationCalls = nil
	m.SendAcceptedNotificationCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendStandingsCalls = nil
	m.LastStandingsResponse = nil
}

func (m *Mock) SendChallengeNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, dryRun bool) error {
	m.mu.Lock()
	m.SendChallengeNotificationCalls = append(m.SendChallengeNotificationCalls, struct {
		Challenge  *challenge.Challenge
		Challenger *ladder.Player
		Challengee *ladder.Player
	}{ch, challenger, challengee})
	m.mu.Unlock()
	if m.SendChallengeNotificationFunc != nil {
		return m.SendChallengeNotificationFunc(ch, challenger, challengee, dryRun)
	}
	return nil
}

func (m *Mock) SendAcceptedNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, deadline string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendAcceptedNotificationCalls = append(m.SendAcceptedNotificationCalls, struct {
		Challenge  *challenge.Challenge
		Challenger *ladder.Player
		Challengee *ladder.Player
		Deadline   string
	}{ch, challenger, challengee, deadline})
	return nil
}

func (m *Mock) SendResultNotification(mt *match.Match, winner, loser *ladder.Player, outcome *ladder.MatchOutcome, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, struct {
		Match   *match.Match
		Winner  *ladder.Player
		Loser   *ladder.Player
		Outcome *ladder.MatchOutcome
	}{mt, winner, loser, outcome})
	m.mu.Unlock()
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(mt, winner, loser, outcome, dryRun)
	}
	return nil
}

func (m *Mock) SendStandings(l *ladder.Ladder, standings []ladder.StandingEntry, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendStandingsCalls = append(m.SendStandingsCalls, struct {
		Ladder    *ladder.Ladder
		Standings []ladder.StandingEntry
	}{l, standings})
	return nil
}

func (m *Mock) FormatStandingsResponse(l *ladder.Ladder, standings []ladder.StandingEntry) (any, error) {
	if m.FormatStandingsResponseFunc != nil {
		resp, err := m.FormatStandingsResponseFunc(l, standings)
		m.mu.Lock()
		m.LastStandingsResponse = resp
		m.mu.Unlock()
		return resp, err
	}
	return nil, nil
}
