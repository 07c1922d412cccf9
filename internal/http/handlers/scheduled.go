package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/processor"
)

// PostLeaderboardHandler posts the current top players to the channel. It
// is meant to be triggered by a scheduler.
func PostLeaderboardHandler(proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Posting leaderboard...")
		isDryRun := IsDryRunFromContext(r)

		n := leaderboard.DefaultTop
		if nStr := r.URL.Query().Get("n"); nStr != "" {
			parsed, err := strconv.Atoi(nStr)
			if err == nil && parsed > 0 {
				n = parsed
			} else {
				log.Warn("Invalid 'n' parameter provided. Using default.", "n_param", nStr)
			}
		}

		if err := proc.PostLeaderboard(n, isDryRun); err != nil {
			log.Error("Failed to post leaderboard", "error", err)
			http.Error(w, "Failed to post leaderboard", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard posted.")
		log.Info("Leaderboard posting finished.", "n", n)
	}
}
