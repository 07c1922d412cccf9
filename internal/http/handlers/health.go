package handlers

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/metrics"
)

func HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// UsageHandler returns the durable per-command usage counters.
func UsageHandler(usage metrics.UsageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := usage.GetAll()
		if err != nil {
			http.Error(w, "Failed to get usage counters", http.StatusInternalServerError)
			log.Error("Failed to get usage counters", "error", err)
			return
		}
		respondWithJSON(w, http.StatusOK, counters)
	}
}
