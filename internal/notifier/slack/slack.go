package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/notifier"
	"github.com/mauv0809/match-ledger/internal/session"
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
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendMatchCard posts the summary of a committed match to the channel.
func (s *Notifier) SendMatchCard(rec *match.Record, tournament *club.Tournament, dryRun bool) error {
	msg := s.formatMatchCard(rec, tournament, "🎮 New match recorded")
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendMatchRemoved(matchID int64, dryRun bool) error {
	text := fmt.Sprintf("🗑 Match `%09d` was deleted.", matchID)
	msg := slack.NewBlockMessage(slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []leaderboard.Entry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatSessionResponse formats the next match entry prompt, or the saved
// match once the session commits.
func (s *Notifier) FormatSessionResponse(res session.Result, err error) (any, error) {
	return ephemeral(s.formatSession(res, err)), nil
}

func (s *Notifier) FormatMatchCardResponse(rec *match.Record, tournament *club.Tournament) (any, error) {
	return ephemeral(s.formatMatchCard(rec, tournament, "🎮 Match "+rec.DisplayID())), nil
}

func (s *Notifier) FormatMatchListResponse(page match.Page, tournament *club.Tournament) (any, error) {
	return ephemeral(s.formatMatchList(page, tournament)), nil
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(entries []leaderboard.Entry) (any, error) {
	return s.formatLeaderboard(entries), nil
}

// FormatPlayerProfileResponse formats a player profile for a slash command response.
func (s *Notifier) FormatPlayerProfileResponse(profile *leaderboard.Profile) (any, error) {
	return s.formatPlayerProfile(profile), nil
}

// FormatPlayerNotFoundResponse formats a player not found message for a slash command response.
func (s *Notifier) FormatPlayerNotFoundResponse(query string, suggestions []club.Suggestion) (any, error) {
	return ephemeral(s.formatPlayerNotFound(query, suggestions)), nil
}

func (s *Notifier) FormatErrorResponse(text string) (any, error) {
	msg := slack.NewBlockMessage(slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", "❌ "+text, false, false), nil, nil))
	return ephemeral(msg), nil
}

func (s *Notifier) FormatInfoResponse(text string) (any, error) {
	msg := slack.NewBlockMessage(slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil))
	return ephemeral(msg), nil
}

// ephemeral makes a slash command response visible only to the caller.
func ephemeral(msg slack.Message) slack.Message {
	msg.ResponseType = "ephemeral"
	return msg
}
