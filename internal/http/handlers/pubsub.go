package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/pubsub"
)

// MatchEventHandler receives pushed match events and renders them to the channel.
func MatchEventHandler(proc *processor.Processor, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := decodePush(r)
		if err != nil {
			log.Error("Failed to decode push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var ev processor.MatchEvent
		if err := pubsubClient.ProcessMessage(rawData, &ev); err != nil {
			// Acknowledge so Pub/Sub does not redeliver a payload that can never decode.
			log.Error("Failed to decode match event", "error", err)
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := proc.HandleEvent(ev, IsDryRunFromContext(r)); err != nil {
			log.Error("Failed to handle match event", "error", err, "matchID", ev.MatchID)
			http.Error(w, "Failed to handle match event", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
