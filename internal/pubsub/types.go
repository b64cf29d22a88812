package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventChallengeIssued   EventType = "challenge-issued"
	EventChallengeAccepted EventType = "challenge-accepted"
	EventChallengeExpired  EventType = "challenge-expired"
	EventMatchResolved     EventType = "match-resolved"
	EventRosterChanged     EventType = "roster-changed"
)

// ChallengeEvent is the payload published for challenge lifecycle events.
type ChallengeEvent struct {
	ChallengeID  string `msgpack:"challenge_id"`
	LadderID     string `msgpack:"ladder_id"`
	ChallengerID string `msgpack:"challenger_id"`
	ChallengeeID string `msgpack:"challengee_id"`
	Status       string `msgpack:"status"`
}

// MatchResolvedEvent is the payload published when a match gets a winner.
type MatchResolvedEvent struct {
	MatchID  string `msgpack:"match_id"`
	LadderID string `msgpack:"ladder_id"`
	WinnerID string `msgpack:"winner_id"`
	LoserID  string `msgpack:"loser_id"`
	Forfeit  bool   `msgpack:"forfeit"`
	Swapped  bool   `msgpack:"swapped"`
}

// RosterChangedEvent is the payload published when a player joins or leaves.
type RosterChangedEvent struct {
	LadderID string `msgpack:"ladder_id"`
	PlayerID string `msgpack:"player_id"`
	Joined   bool   `msgpack:"joined"`
}
