package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/mauv0809/ladder-league/internal/metrics"
	"github.com/mauv0809/ladder-league/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendChallengeNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, dryRun bool) error {
	msg := s.formatChallengeNotification(ch, challenger, challengee)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendAcceptedNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player, deadline string, dryRun bool) error {
	msg := s.formatAcceptedNotification(challenger, challengee, deadline)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendResultNotification(m *match.Match, winner, loser *ladder.Player, outcome *ladder.MatchOutcome, dryRun bool) error {
	msg := s.formatResultNotification(m, winner, loser, outcome)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendStandings(l *ladder.Ladder, standings []ladder.StandingEntry, dryRun bool) error {
	msg := s.formatStandings(l, standings)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatStandingsResponse formats a standings message for an inline response.
func (s *Notifier) FormatStandingsResponse(l *ladder.Ladder, standings []ladder.StandingEntry) (any, error) {
	return s.formatStandings(l, standings), nil
}

// formatChallengeNotification creates the Slack message for a new challenge using Block Kit.
func (s *Notifier) formatChallengeNotification(ch *challenge.Challenge, challenger, challengee *ladder.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header - The Header block itself provides bolding. No asterisks needed.
	headerText := slack.NewTextBlockObject("plain_text", "⚔️ New challenge! ⚔️", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s has challenged %s", challenger.Name, challengee.Name)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Context - For simpler, single-line info.
	var contextElements []slack.MixedElement
	if ch.Note != "" {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", ch.Note, true, false))
	}
	if ch.Deadline != nil {
		deadlineStr := fmt.Sprintf("Respond before %s", ch.Deadline.Format("Monday 02 Jan, 15:04"))
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", deadlineStr, true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatAcceptedNotification creates the Slack message for an accepted challenge using Block Kit.
func (s *Notifier) formatAcceptedNotification(challenger, challengee *ladder.Player, deadline string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🤝 Challenge accepted! 🤝", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s vs %s is on.", challenger.Name, challengee.Name)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if deadline != "" {
		contextText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("Play before %s", deadline), true, false)
		blocks = append(blocks, slack.NewContextBlock("", contextText))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatResultNotification creates the Slack message for a resolved match using Block Kit.
func (s *Notifier) formatResultNotification(m *match.Match, winner, loser *ladder.Player, outcome *ladder.MatchOutcome) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Match finished! 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	verb := "beat"
	if m.Forfeit {
		verb = "beat (by forfeit)"
	}
	detailsText := fmt.Sprintf("%s %s %s", winner.Name, verb, loser.Name)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var contextElements []slack.MixedElement
	if outcome != nil {
		if outcome.Swapped {
			swapText := fmt.Sprintf("%s climbs to #%d, %s drops to #%d", winner.Name, outcome.WinnerPosition, loser.Name, outcome.LoserPosition)
			contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", swapText, true, false))
		} else {
			holdText := fmt.Sprintf("%s defends #%d", winner.Name, outcome.WinnerPosition)
			contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", holdText, true, false))
		}
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates the Slack message for the current standings using Block Kit.
func (s *Notifier) formatStandings(l *ladder.Ladder, standings []ladder.StandingEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🪜 %s standings 🪜", l.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for _, entry := range standings {
		arrow := "⬆️"
		if entry.Arrow == ladder.ArrowDown {
			arrow = "⬇️"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", entry.Position, entry.PlayerName, arrow))
	}
	if len(lines) == 0 {
		lines = append(lines, "No one has joined yet.")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
