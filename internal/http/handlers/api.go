package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/pubsub"
)

// ListMatchesHandler serves GET /api/matches?tournament=&page=&date=.
// page is 0-based.
func ListMatchesHandler(matches match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tournamentID, err := strconv.ParseInt(q.Get("tournament"), 10, 64)
		if err != nil {
			http.Error(w, "tournament is required", http.StatusBadRequest)
			return
		}
		filter := match.Filter{TournamentID: tournamentID, Date: q.Get("date")}
		if pageStr := q.Get("page"); pageStr != "" {
			page, err := strconv.Atoi(pageStr)
			if err != nil || page < 0 {
				http.Error(w, "page must be a non-negative number", http.StatusBadRequest)
				return
			}
			filter.Page = page
		}

		page, err := matches.List(filter)
		if err != nil {
			http.Error(w, "Failed to get matches", http.StatusInternalServerError)
			log.Error("Failed to get matches from store", "error", err)
			return
		}
		respondWithJSON(w, http.StatusOK, page)
	}
}

func matchIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseMatchID(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// GetMatchHandler serves GET /api/matches/{id}.
func GetMatchHandler(matches match.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDFromPath(w, r)
		if !ok {
			return
		}
		rec, err := matches.Get(id)
		if errors.Is(err, match.ErrNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get match", http.StatusInternalServerError)
			log.Error("Failed to get match from store", "error", err, "matchID", id)
			return
		}
		respondWithJSON(w, http.StatusOK, rec)
	}
}

type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateMatchHandler serves PATCH /api/matches/{id} with {"field","value"}.
func UpdateMatchHandler(matches match.Store, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDFromPath(w, r)
		if !ok {
			return
		}
		var body fieldUpdate
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rec, err := matches.UpdateField(id, match.Field(body.Field), body.Value)
		switch {
		case errors.Is(err, match.ErrNotFound):
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		case errors.Is(err, match.ErrUnknownField), errors.Is(err, match.ErrInvalidValue):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, "Failed to update match", http.StatusInternalServerError)
			log.Error("Failed to update match", "error", err, "matchID", id)
			return
		}
		proc.MatchChanged(id, rec.TournamentID, pubsub.EventMatchUpdated, IsDryRunFromContext(r))
		respondWithJSON(w, http.StatusOK, rec)
	}
}

// DeleteMatchHandler serves DELETE /api/matches/{id}.
func DeleteMatchHandler(matches match.Store, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := matchIDFromPath(w, r)
		if !ok {
			return
		}
		rec, err := matches.Get(id)
		if err == nil {
			err = matches.Delete(id)
		}
		if errors.Is(err, match.ErrNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to delete match", http.StatusInternalServerError)
			log.Error("Failed to delete match", "error", err, "matchID", id)
			return
		}
		proc.MatchChanged(id, rec.TournamentID, pubsub.EventMatchDeleted, IsDryRunFromContext(r))
		w.WriteHeader(http.StatusNoContent)
	}
}

// TopHandler serves GET /api/top?n=.
func TopHandler(standings leaderboard.Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := leaderboard.DefaultTop
		if nStr := r.URL.Query().Get("n"); nStr != "" {
			parsed, err := strconv.Atoi(nStr)
			if err != nil {
				http.Error(w, "n must be a number", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		entries, err := standings.Top(n)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to compute leaderboard", "error", err)
			return
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}

// PlayerProfileHandler serves GET /api/players/{nickname}. Unknown players
// get a 404 carrying nickname suggestions.
func PlayerProfileHandler(standings leaderboard.Aggregator, clubs club.ClubStore) http.HandlerFunc {
	matcher := club.NewNicknameMatcher(clubs)
	return func(w http.ResponseWriter, r *http.Request) {
		nickname := r.PathValue("nickname")
		profile, err := standings.Profile(nickname)
		if errors.Is(err, leaderboard.ErrPlayerNotFound) {
			suggestions, serr := matcher.Suggest(nickname)
			if serr != nil {
				log.Error("Failed to suggest nicknames", "error", serr)
			}
			respondWithJSON(w, http.StatusNotFound, map[string]any{
				"error":       err.Error(),
				"suggestions": suggestions,
			})
			return
		}
		if err != nil {
			http.Error(w, "Failed to get player profile", http.StatusInternalServerError)
			log.Error("Failed to build player profile", "error", err, "player", nickname)
			return
		}
		respondWithJSON(w, http.StatusOK, profile)
	}
}

// ListTournamentsHandler serves GET /api/tournaments?sort=alpha|year.
func ListTournamentsHandler(clubs club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sort := club.TournamentSort(r.URL.Query().Get("sort"))
		if sort == "" {
			sort = club.SortAlpha
		}
		if sort != club.SortAlpha && sort != club.SortYear {
			http.Error(w, "sort must be alpha or year", http.StatusBadRequest)
			return
		}
		tournaments, err := clubs.ListTournaments(sort)
		if err != nil {
			http.Error(w, "Failed to get tournaments", http.StatusInternalServerError)
			log.Error("Failed to get tournaments from store", "error", err)
			return
		}
		respondWithJSON(w, http.StatusOK, tournaments)
	}
}

type transferRequest struct {
	Nickname   string `json:"nickname"`
	FromTeamID int64  `json:"from_team_id"`
	ToTeamID   int64  `json:"to_team_id"`
	Date       string `json:"date"`
}

// TransferPlayerHandler serves POST /api/transfers.
func TransferPlayerHandler(clubs club.ClubStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body transferRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if body.Nickname == "" || body.Date == "" || body.FromTeamID == 0 || body.ToTeamID == 0 {
			http.Error(w, "nickname, from_team_id, to_team_id and date are required", http.StatusBadRequest)
			return
		}

		if IsDryRunFromContext(r) {
			log.Info("[Dry Run] Would transfer player", "player", body.Nickname, "from", body.FromTeamID, "to", body.ToTeamID)
			w.WriteHeader(http.StatusAccepted)
			return
		}

		transfer, err := clubs.TransferPlayer(body.Nickname, body.FromTeamID, body.ToTeamID, body.Date)
		switch {
		case errors.Is(err, club.ErrTeamNotFound):
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		case errors.Is(err, club.ErrPlayerNotInTeam):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, "Failed to transfer player", http.StatusInternalServerError)
			log.Error("Failed to transfer player", "error", err, "player", body.Nickname)
			return
		}
		respondWithJSON(w, http.StatusCreated, transfer)
	}
}
