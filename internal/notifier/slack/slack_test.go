package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/ladder-league/internal/challenge"
	"github.com/mauv0809/ladder-league/internal/ladder"
	"github.com/mauv0809/ladder-league/internal/match"
	"github.com/mauv0809/ladder-league/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	mockMetrics := metrics.NewMockMetrics()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", mockMetrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	mockMetrics := metrics.NewMockMetrics()
	notifier := NewNotifierWithAPI(api, "C123", mockMetrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, mockMetrics.NotifSentCount)
	assert.Equal(t, 0, mockMetrics.NotifFailedCount)
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	mockMetrics := metrics.NewMockMetrics()
	notifier := NewNotifierWithAPI(api, "C123", mockMetrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, mockMetrics.NotifSentCount)
	assert.Equal(t, 1, mockMetrics.NotifFailedCount)
}

func TestFormatChallengeNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMockMetrics())

	deadline := time.Date(2025, 6, 16, 18, 0, 0, 0, time.UTC)
	ch := &challenge.Challenge{
		ID:           "ch-1",
		ChallengerID: "p1",
		ChallengeeID: "p2",
		Note:         "Friday evening?",
		Deadline:     &deadline,
	}
	challenger := &ladder.Player{ID: "p1", Name: "Ken"}
	challengee := &ladder.Player{ID: "p2", Name: "Ryu"}

	msg := notifier.formatChallengeNotification(ch, challenger, challengee)

	require.NotEmpty(t, msg.Blocks.BlockSet)
	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "first block should be a header")
	assert.Contains(t, header.Text.Text, "New challenge")

	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "second block should be a section")
	assert.Contains(t, section.Text.Text, "Ken")
	assert.Contains(t, section.Text.Text, "Ryu")

	// Note and deadline land in the context block.
	context, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok, "third block should be a context block")
	assert.Len(t, context.ContextElements.Elements, 2)
}

func TestFormatResultNotification(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMockMetrics())

	winnerID := "p2"
	m := &match.Match{
		ID:           "m-1",
		ChallengerID: "p2",
		ChallengeeID: "p1",
		WinnerID:     &winnerID,
	}
	winner := &ladder.Player{ID: "p2", Name: "Ryu"}
	loser := &ladder.Player{ID: "p1", Name: "Ken"}
	outcome := &ladder.MatchOutcome{
		WinnerPosition: 3,
		WinnerArrow:    ladder.ArrowUp,
		LoserPosition:  5,
		LoserArrow:     ladder.ArrowDown,
		Swapped:        true,
	}

	msg := notifier.formatResultNotification(m, winner, loser, outcome)

	require.Len(t, msg.Blocks.BlockSet, 3)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "Ryu beat Ken", section.Text.Text)

	context, ok := msg.Blocks.BlockSet[2].(*slackapi.ContextBlock)
	require.True(t, ok)
	text := context.ContextElements.Elements[0].(*slackapi.TextBlockObject).Text
	assert.Contains(t, text, "climbs to #3")
	assert.Contains(t, text, "drops to #5")
}

func TestFormatResultNotification_Forfeit(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMockMetrics())

	winnerID := "p1"
	m := &match.Match{
		ID:           "m-1",
		ChallengerID: "p1",
		ChallengeeID: "p2",
		WinnerID:     &winnerID,
		Forfeit:      true,
	}
	winner := &ladder.Player{ID: "p1", Name: "Ken"}
	loser := &ladder.Player{ID: "p2", Name: "Ryu"}
	outcome := &ladder.MatchOutcome{WinnerPosition: 2, LoserPosition: 4, Swapped: false}

	msg := notifier.formatResultNotification(m, winner, loser, outcome)

	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "by forfeit")
}

func TestFormatStandings(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMockMetrics())

	l := &ladder.Ladder{ID: "l-1", Name: "Copenhagen Tekken"}
	standings := []ladder.StandingEntry{
		{PlayerID: "p1", PlayerName: "Ken", Position: 1, Arrow: ladder.ArrowDown},
		{PlayerID: "p2", PlayerName: "Ryu", Position: 2, Arrow: ladder.ArrowUp},
	}

	msg := notifier.formatStandings(l, standings)

	require.Len(t, msg.Blocks.BlockSet, 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "1. Ken")
	assert.Contains(t, section.Text.Text, "2. Ryu")
}

func TestFormatStandings_Empty(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMockMetrics())

	l := &ladder.Ladder{ID: "l-1", Name: "Copenhagen Tekken"}
	msg := notifier.formatStandings(l, nil)

	section := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	assert.Contains(t, section.Text.Text, "No one has joined yet")
}
