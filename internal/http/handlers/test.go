package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/session"
)

// TestSessionHandler drives a match entry session without Slack, for manual
// testing. Form values: operator, kind (start, text, choice, skip, next,
// prev, cancel) and value. The session result is returned as JSON.
func TestSessionHandler(sessions session.Manager, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}

		operatorID := r.FormValue("operator")
		kind := r.FormValue("kind")
		if operatorID == "" || kind == "" {
			http.Error(w, "Missing required parameters: operator, kind", http.StatusBadRequest)
			return
		}

		log.Info("Test session input received", "operator", operatorID, "kind", kind)

		var (
			res session.Result
			err error
		)
		switch kind {
		case "start":
			res, err = sessions.Start(operatorID)
		case "cancel":
			respondWithJSON(w, http.StatusOK, map[string]bool{"cancelled": sessions.Cancel(operatorID)})
			return
		default:
			in := session.Input{Kind: session.InputKind(kind), Value: r.FormValue("value")}
			res, err = sessions.Submit(operatorID, in)
			if err == nil && res.Outcome == session.OutcomeCommit && res.Record != nil {
				proc.MatchCommitted(res.Record, IsDryRunFromContext(r))
			}
		}

		if err != nil {
			status := http.StatusInternalServerError
			if session.IsRecoverable(err) || errors.Is(err, session.ErrNoSession) {
				status = http.StatusUnprocessableEntity
			}
			respondWithJSON(w, status, map[string]any{"error": err.Error(), "result": res})
			return
		}
		respondWithJSON(w, http.StatusOK, res)
	}
}
