package processor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/pubsub"
)

// New creates a new Processor.
func New(store Store, clubs Clubs, standings Standings, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		store:     store,
		clubs:     clubs,
		standings: standings,
		pubsub:    pubsub,
		notifier:  notifier,
		metrics:   metrics,
	}
}

// MatchCommitted announces a freshly stored match. The card is posted by
// the push handler once the event comes back; in dry-run mode, or when
// publishing fails, it is posted directly.
func (p *Processor) MatchCommitted(rec *match.Record, dryRun bool) {
	log.Info("Match committed", "matchID", rec.ID, "tournamentID", rec.TournamentID)
	if !dryRun {
		err := p.pubsub.SendMessage(pubsub.EventMatchCommitted, MatchEvent{
			MatchID:      rec.ID,
			TournamentID: rec.TournamentID,
			Kind:         pubsub.EventMatchCommitted,
		})
		if err == nil {
			return
		}
		log.Warn("Failed to publish match event, posting card directly", "error", err, "matchID", rec.ID)
	}
	if err := p.notifier.SendMatchCard(rec, p.tournament(rec.TournamentID), dryRun); err != nil {
		log.Error("Failed to send match card", "error", err, "matchID", rec.ID)
	}
}

// MatchChanged publishes an edit or a deletion of a committed match.
func (p *Processor) MatchChanged(matchID, tournamentID int64, kind pubsub.EventType, dryRun bool) {
	if kind != pubsub.EventMatchUpdated && kind != pubsub.EventMatchDeleted {
		log.Warn("Ignoring unsupported match change", "matchID", matchID, "kind", kind)
		return
	}
	ev := MatchEvent{MatchID: matchID, TournamentID: tournamentID, Kind: kind}
	if dryRun {
		log.Info("[Dry Run] Would publish match event", "matchID", matchID, "kind", kind)
		return
	}
	if err := p.pubsub.SendMessage(kind, ev); err != nil {
		log.Error("Failed to publish match event", "error", err, "matchID", matchID, "kind", kind)
	}
}

// HandleEvent renders a pushed match event to the channel.
func (p *Processor) HandleEvent(ev MatchEvent, dryRun bool) error {
	log.Info("Handling match event", "matchID", ev.MatchID, "kind", ev.Kind)
	switch ev.Kind {
	case pubsub.EventMatchDeleted:
		return p.notifier.SendMatchRemoved(ev.MatchID, dryRun)

	case pubsub.EventMatchCommitted, pubsub.EventMatchUpdated:
		rec, err := p.store.Get(ev.MatchID)
		if errors.Is(err, match.ErrNotFound) {
			// Deleted before the event was delivered.
			log.Warn("Match from event no longer exists", "matchID", ev.MatchID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load match %d: %w", ev.MatchID, err)
		}
		return p.notifier.SendMatchCard(rec, p.tournament(rec.TournamentID), dryRun)
	}
	return fmt.Errorf("unknown match event kind %q", ev.Kind)
}

// PostLeaderboard posts the current top n players to the channel.
func (p *Processor) PostLeaderboard(n int, dryRun bool) error {
	entries, err := p.standings.Top(n)
	if err != nil {
		return fmt.Errorf("failed to compute leaderboard: %w", err)
	}
	return p.notifier.SendLeaderboard(entries, dryRun)
}

// tournament returns nil when the tournament cannot be loaded; the card is
// still worth posting without it.
func (p *Processor) tournament(id int64) *club.Tournament {
	t, err := p.clubs.Tournament(id)
	if err != nil {
		log.Warn("Failed to load tournament for match card", "error", err, "tournamentID", id)
		return nil
	}
	return t
}
