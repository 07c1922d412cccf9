package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/notifier"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/slack-go/slack"
)

// ResponseFunc delivers a message to an interaction's response_url.
type ResponseFunc func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// InteractionsHandler turns session button clicks into session inputs. The
// next prompt replaces the message that carried the buttons.
func InteractionsHandler(sessions session.Manager, notif notifier.Notifier, proc *processor.Processor, respond ResponseFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		var cb slack.InteractionCallback
		if err := json.Unmarshal([]byte(r.FormValue("payload")), &cb); err != nil {
			log.Error("Failed to unmarshal interaction payload", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if cb.Type != slack.InteractionTypeBlockActions || len(cb.ActionCallback.BlockActions) == 0 {
			log.Debug("Ignoring interaction", "type", cb.Type)
			w.WriteHeader(http.StatusOK)
			return
		}

		action := cb.ActionCallback.BlockActions[0]
		operatorID := cb.User.ID
		log.Info("Received session action", "user", operatorID, "action", action.ActionID)

		var (
			res session.Result
			err error
		)
		if action.ActionID == notifier.ActionCancel {
			if !sessions.Cancel(operatorID) {
				err = session.ErrNoSession
			}
		} else {
			in, ok := actionInput(action)
			if !ok {
				log.Warn("Unknown session action", "action", action.ActionID)
				w.WriteHeader(http.StatusOK)
				return
			}
			res, err = sessions.Submit(operatorID, in)
			if err == nil && res.Outcome == session.OutcomeCommit && res.Record != nil {
				proc.MatchCommitted(res.Record, IsDryRunFromContext(r))
			}
		}

		var reply any
		var ferr error
		if action.ActionID == notifier.ActionCancel && err == nil {
			reply, ferr = notif.FormatInfoResponse("🚫 Match entry cancelled.")
		} else {
			reply, ferr = notif.FormatSessionResponse(res, err)
		}
		if ferr != nil {
			log.Error("Failed to format session response", "error", ferr)
			http.Error(w, "Failed to format response", http.StatusInternalServerError)
			return
		}
		msg, ok := reply.(slack.Message)
		if !ok {
			log.Error("Failed to cast message to slack.Message")
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			return
		}

		if cb.ResponseURL != "" {
			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			defer cancel()
			blocks := msg.Blocks
			webhook := &slack.WebhookMessage{
				Blocks:          &blocks,
				ReplaceOriginal: true,
				ResponseType:    "ephemeral",
			}
			if err := respond(ctx, cb.ResponseURL, webhook); err != nil {
				log.Error("Failed to post interaction response", "error", err, "user", operatorID)
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

// actionInput maps a session button to the input it stands for.
func actionInput(action *slack.BlockAction) (session.Input, bool) {
	switch {
	case action.ActionID == notifier.ActionNext:
		return session.Input{Kind: session.InputNext}, true
	case action.ActionID == notifier.ActionPrev:
		return session.Input{Kind: session.InputPrev}, true
	case action.ActionID == notifier.ActionSkip:
		return session.Input{Kind: session.InputSkip}, true
	case strings.HasPrefix(action.ActionID, notifier.ActionChoice):
		return session.Input{Kind: session.InputChoice, Value: action.Value}, true
	}
	return session.Input{}, false
}
