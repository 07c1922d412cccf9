package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/config"
	"github.com/mauv0809/match-ledger/internal/leaderboard"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/notifier"
	"github.com/mauv0809/match-ledger/internal/processor"
	"github.com/mauv0809/match-ledger/internal/pubsub"
	"github.com/mauv0809/match-ledger/internal/session"
	"github.com/slack-go/slack"
)

// MatchCommandHandler drives match entry from the /match command.
//
//	/match [start [tournamentID]]   begin a new entry
//	/match cancel                   drop the entry in progress
//	/match skip                     mark the prompted player as absent
//	/match show <id>                show a committed match
//	/match edit <id> <field> <value> (admins)
//	/match delete <id>               (admins)
//
// Any other text is the answer to the current step.
func MatchCommandHandler(sessions session.Manager, matches match.Store, clubs club.ClubStore, notifier notifier.Notifier, proc *processor.Processor, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cmd, err := slack.SlashCommandParse(r)
		if err != nil {
			log.Error("Failed to parse slash command", "error", err)
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		isDryRun := IsDryRunFromContext(r)
		verb, args := splitCommand(cmd.Text)
		log.Info("Received match command", "user", cmd.UserID, "verb", verb, "args", len(args))

		switch {
		case verb == "" || (verb == "start" && len(args) == 0):
			res, err := sessions.Start(cmd.UserID)
			msg, ferr := notifier.FormatSessionResponse(res, err)
			respondWithFormatted(w, msg, ferr)

		case verb == "start" && len(args) == 1:
			tournamentID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				msg, ferr := notifier.FormatErrorResponse("Tournament id must be a number.")
				respondWithFormatted(w, msg, ferr)
				return
			}
			res, err := sessions.Begin(cmd.UserID, tournamentID)
			msg, ferr := notifier.FormatSessionResponse(res, err)
			respondWithFormatted(w, msg, ferr)

		case verb == "cancel" && len(args) == 0:
			if !sessions.Cancel(cmd.UserID) {
				msg, ferr := notifier.FormatSessionResponse(session.Result{}, session.ErrNoSession)
				respondWithFormatted(w, msg, ferr)
				return
			}
			msg, ferr := notifier.FormatInfoResponse("🚫 Match entry cancelled.")
			respondWithFormatted(w, msg, ferr)

		case verb == "skip" && len(args) == 0:
			submitStep(w, sessions, notifier, proc, cmd.UserID, session.Input{Kind: session.InputSkip}, isDryRun)

		case verb == "show" && len(args) == 1:
			showMatch(w, matches, clubs, notifier, args[0])

		case verb == "delete" && len(args) == 1:
			if !cfg.IsAdmin(cmd.UserID) {
				msg, ferr := notifier.FormatErrorResponse("Only admins can delete matches.")
				respondWithFormatted(w, msg, ferr)
				return
			}
			deleteMatch(w, matches, notifier, proc, args[0], isDryRun)

		case verb == "edit" && len(args) >= 3:
			if !cfg.IsAdmin(cmd.UserID) {
				msg, ferr := notifier.FormatErrorResponse("Only admins can edit matches.")
				respondWithFormatted(w, msg, ferr)
				return
			}
			editMatch(w, matches, clubs, notifier, proc, args[0], args[1], strings.Join(args[2:], " "), isDryRun)

		default:
			submitStep(w, sessions, notifier, proc, cmd.UserID, session.Input{Kind: session.InputText, Value: cmd.Text}, isDryRun)
		}
	}
}

// submitStep feeds one input to the operator's session and hands a
// committed match to the processor.
func submitStep(w http.ResponseWriter, sessions session.Manager, notifier notifier.Notifier, proc *processor.Processor, operatorID string, in session.Input, dryRun bool) {
	res, err := sessions.Submit(operatorID, in)
	if err == nil && res.Outcome == session.OutcomeCommit && res.Record != nil {
		proc.MatchCommitted(res.Record, dryRun)
	}
	msg, ferr := notifier.FormatSessionResponse(res, err)
	respondWithFormatted(w, msg, ferr)
}

func parseMatchID(text string) (int64, error) {
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("match id %q is not valid", text)
	}
	return id, nil
}

func showMatch(w http.ResponseWriter, matches match.Store, clubs club.ClubStore, notifier notifier.Notifier, idText string) {
	id, err := parseMatchID(idText)
	if err != nil {
		msg, ferr := notifier.FormatErrorResponse(err.Error())
		respondWithFormatted(w, msg, ferr)
		return
	}
	rec, err := matches.Get(id)
	if errors.Is(err, match.ErrNotFound) {
		msg, ferr := notifier.FormatErrorResponse(fmt.Sprintf("Match %09d not found.", id))
		respondWithFormatted(w, msg, ferr)
		return
	}
	if err != nil {
		http.Error(w, "Failed to get match", http.StatusInternalServerError)
		log.Error("Failed to get match from store", "error", err, "matchID", id)
		return
	}
	tournament, err := clubs.Tournament(rec.TournamentID)
	if err != nil {
		log.Warn("Failed to load tournament for match", "error", err, "tournamentID", rec.TournamentID)
	}
	msg, ferr := notifier.FormatMatchCardResponse(rec, tournament)
	respondWithFormatted(w, msg, ferr)
}

func deleteMatch(w http.ResponseWriter, matches match.Store, notifier notifier.Notifier, proc *processor.Processor, idText string, dryRun bool) {
	id, err := parseMatchID(idText)
	if err != nil {
		msg, ferr := notifier.FormatErrorResponse(err.Error())
		respondWithFormatted(w, msg, ferr)
		return
	}
	rec, err := matches.Get(id)
	if err == nil {
		err = matches.Delete(id)
	}
	if errors.Is(err, match.ErrNotFound) {
		msg, ferr := notifier.FormatErrorResponse(fmt.Sprintf("Match %09d not found.", id))
		respondWithFormatted(w, msg, ferr)
		return
	}
	if err != nil {
		http.Error(w, "Failed to delete match", http.StatusInternalServerError)
		log.Error("Failed to delete match", "error", err, "matchID", id)
		return
	}
	log.Info("Match deleted", "matchID", id)
	proc.MatchChanged(id, rec.TournamentID, pubsub.EventMatchDeleted, dryRun)
	msg, ferr := notifier.FormatInfoResponse(fmt.Sprintf("🗑 Match `%09d` deleted.", id))
	respondWithFormatted(w, msg, ferr)
}

func editMatch(w http.ResponseWriter, matches match.Store, clubs club.ClubStore, notifier notifier.Notifier, proc *processor.Processor, idText, field, value string, dryRun bool) {
	id, err := parseMatchID(idText)
	if err != nil {
		msg, ferr := notifier.FormatErrorResponse(err.Error())
		respondWithFormatted(w, msg, ferr)
		return
	}
	rec, err := matches.UpdateField(id, match.Field(strings.ToLower(field)), value)
	switch {
	case errors.Is(err, match.ErrNotFound):
		msg, ferr := notifier.FormatErrorResponse(fmt.Sprintf("Match %09d not found.", id))
		respondWithFormatted(w, msg, ferr)
		return
	case errors.Is(err, match.ErrUnknownField), errors.Is(err, match.ErrInvalidValue):
		msg, ferr := notifier.FormatErrorResponse(err.Error())
		respondWithFormatted(w, msg, ferr)
		return
	case err != nil:
		http.Error(w, "Failed to update match", http.StatusInternalServerError)
		log.Error("Failed to update match", "error", err, "matchID", id)
		return
	}
	log.Info("Match updated", "matchID", id, "field", field)
	proc.MatchChanged(id, rec.TournamentID, pubsub.EventMatchUpdated, dryRun)
	tournament, _ := clubs.Tournament(rec.TournamentID)
	msg, ferr := notifier.FormatMatchCardResponse(rec, tournament)
	respondWithFormatted(w, msg, ferr)
}

// TopCommandHandler returns a handler for the /top Slack command.
func TopCommandHandler(standings leaderboard.Aggregator, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		n := leaderboard.DefaultTop
		if text := strings.TrimSpace(r.FormValue("text")); text != "" {
			parsed, err := strconv.Atoi(text)
			if err != nil {
				log.Warn("Invalid top size, using default", "text", text)
			} else {
				n = parsed
			}
		}

		entries, err := standings.Top(n)
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to compute leaderboard", "error", err)
			return
		}
		msg, err := notifier.FormatLeaderboardResponse(entries)
		respondWithFormatted(w, msg, err)
	}
}

// ProfileCommandHandler returns a handler for the /profile Slack command.
func ProfileCommandHandler(standings leaderboard.Aggregator, clubs club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	matcher := club.NewNicknameMatcher(clubs)
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		nickname := strings.TrimSpace(r.FormValue("text"))
		if nickname == "" {
			http.Error(w, "Player nickname is required.", http.StatusBadRequest)
			return
		}

		log.Info("Received profile command", "player", nickname)

		profile, err := standings.Profile(nickname)
		var msg any
		switch {
		case errors.Is(err, leaderboard.ErrPlayerNotFound):
			log.Warn("Could not find player", "player", nickname)
			suggestions, serr := matcher.Suggest(nickname)
			if serr != nil {
				log.Error("Failed to suggest nicknames", "error", serr)
			}
			msg, err = notifier.FormatPlayerNotFoundResponse(nickname, suggestions)
		case err != nil:
			http.Error(w, "Failed to get player profile", http.StatusInternalServerError)
			log.Error("Failed to build player profile", "error", err, "player", nickname)
			return
		default:
			msg, err = notifier.FormatPlayerProfileResponse(profile)
		}
		respondWithFormatted(w, msg, err)
	}
}

// MatchesCommandHandler lists a tournament's matches:
// /matches <tournamentID> [page] [date]. Pages start at 1.
func MatchesCommandHandler(matches match.Store, clubs club.ClubStore, notifier notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		fields := strings.Fields(r.FormValue("text"))
		usage := func() {
			msg, err := notifier.FormatErrorResponse("Usage: `/matches <tournament id> [page] [date]`")
			respondWithFormatted(w, msg, err)
		}
		if len(fields) == 0 || len(fields) > 3 {
			usage()
			return
		}
		tournamentID, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			usage()
			return
		}
		filter := match.Filter{TournamentID: tournamentID}
		if len(fields) > 1 {
			page, err := strconv.Atoi(fields[1])
			if err != nil || page < 1 {
				usage()
				return
			}
			filter.Page = page - 1
		}
		if len(fields) > 2 {
			filter.Date = fields[2]
		}

		tournament, err := clubs.Tournament(tournamentID)
		if errors.Is(err, club.ErrTournamentNotFound) {
			msg, ferr := notifier.FormatErrorResponse(fmt.Sprintf("Tournament %d not found.", tournamentID))
			respondWithFormatted(w, msg, ferr)
			return
		}
		if err != nil {
			http.Error(w, "Failed to get tournament", http.StatusInternalServerError)
			log.Error("Failed to get tournament", "error", err, "tournamentID", tournamentID)
			return
		}

		page, err := matches.List(filter)
		if err != nil {
			http.Error(w, "Failed to list matches", http.StatusInternalServerError)
			log.Error("Failed to list matches", "error", err, "tournamentID", tournamentID)
			return
		}
		msg, err := notifier.FormatMatchListResponse(page, tournament)
		respondWithFormatted(w, msg, err)
	}
}
