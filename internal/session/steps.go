package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/rating"
)

// apply runs one input against the current state. On error nothing has
// been changed.
func (s *session) apply(in Input, clubs Clubs) (Outcome, error) {
	if in.Kind == InputSkip && s.state != StateCollectingTeam1 && s.state != StateCollectingTeam2 {
		return "", &ValidationError{State: s.state, Reason: "only a player can be skipped"}
	}
	if (in.Kind == InputNext || in.Kind == InputPrev) && s.state != StateSelectTournament {
		return "", &ValidationError{State: s.state, Reason: "nothing to browse"}
	}

	value := strings.TrimSpace(in.Value)

	switch s.state {
	case StateSelectTournament:
		return s.selectTournament(in.Kind, value)

	case StateSelectFormat:
		if !match.IsFormat(value) {
			return "", &ValidationError{State: s.state, Reason: fmt.Sprintf("unknown format %q", value)}
		}
		s.format = value
		s.state = StateEnterDate

	case StateEnterDate:
		if utf8.RuneCountInString(value) < match.MinDateLength {
			return "", &ValidationError{State: s.state, Reason: fmt.Sprintf("date must be at least %d characters", match.MinDateLength)}
		}
		s.date = value
		s.state = StateSelectMap

	case StateSelectMap:
		if !match.IsMap(value) {
			return "", &ValidationError{State: s.state, Reason: fmt.Sprintf("unknown map %q", value)}
		}
		s.mapName = value
		s.state = StateEnterScore

	case StateEnterScore:
		s1, s2, err := match.ParseScore(value)
		if err != nil || s1 < 0 || s2 < 0 {
			return "", &ValidationError{State: s.state, Reason: "score must look like 13-11"}
		}
		s.score1, s.score2, s.rounds = s1, s2, s1+s2
		s.state = StateEnterTeam1Tag

	case StateEnterTeam1Tag:
		team, err := s.resolveTeam(clubs, value)
		if err != nil {
			return "", err
		}
		s.team1Tag = team.Tag
		s.team1ID = team.ID
		s.beginRoster(team, 1)
		s.state = StateCollectingTeam1

	case StateEnterTeam2Tag:
		if strings.EqualFold(value, s.team1Tag) {
			return "", &DuplicateTeamError{Tag: value}
		}
		team, err := s.resolveTeam(clubs, value)
		if err != nil {
			return "", err
		}
		if team.ID == s.team1ID {
			return "", &DuplicateTeamError{Tag: value}
		}
		s.team2Tag = team.Tag
		s.beginRoster(team, 2)
		s.state = StateCollectingTeam2

	case StateCollectingTeam1, StateCollectingTeam2:
		return s.collect(in.Kind, value)

	default:
		return "", &ValidationError{State: s.state, Reason: "session is already finished"}
	}
	return OutcomeAdvance, nil
}

func (s *session) selectTournament(kind InputKind, value string) (Outcome, error) {
	switch kind {
	case InputNext:
		if s.browseIndex < len(s.tournaments)-1 {
			s.browseIndex++
		}
		return OutcomeNavigate, nil
	case InputPrev:
		if s.browseIndex > 0 {
			s.browseIndex--
		}
		return OutcomeNavigate, nil
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return "", &ValidationError{State: s.state, Reason: fmt.Sprintf("tournament id %q is not a number", value)}
	}
	for _, t := range s.tournaments {
		if t.ID == id {
			s.tournamentID = id
			s.state = StateSelectFormat
			return OutcomeAdvance, nil
		}
	}
	return "", &LookupError{State: s.state, Kind: "tournament", Key: value, Reason: "not found"}
}

// resolveTeam looks a tag up and rejects teams without players. Storage
// failures other than not found are fatal.
func (s *session) resolveTeam(clubs Clubs, tag string) (*club.Team, error) {
	if tag == "" {
		return nil, &ValidationError{State: s.state, Reason: "team tag is empty"}
	}
	team, err := clubs.TeamByTag(tag)
	if errors.Is(err, club.ErrTeamNotFound) || (err == nil && team == nil) {
		return nil, &LookupError{State: s.state, Kind: "team", Key: tag, Reason: "not found"}
	}
	if err != nil {
		return nil, &StoreError{Op: "resolve team", Err: err}
	}
	if len(team.Roster) == 0 {
		return nil, &LookupError{State: s.state, Kind: "team", Key: tag, Reason: "roster is empty"}
	}
	return team, nil
}

// beginRoster snapshots the roster so later roster edits do not affect
// this session.
func (s *session) beginRoster(team *club.Team, index int) {
	s.roster = append([]string(nil), team.Roster...)
	s.teamIndex = index
	s.playerIndex = 0
	s.current = nil
}

func (s *session) collect(kind InputKind, value string) (Outcome, error) {
	if s.playerIndex >= len(s.roster) {
		return "", &ValidationError{State: s.state, Reason: "every player has been entered"}
	}

	if kind != InputSkip {
		counts, err := parseCounts(value)
		if err != nil {
			return "", &ValidationError{State: s.state, Reason: err.Error()}
		}
		s.current = append(s.current, rating.PlayerLine{
			Nickname:     s.roster[s.playerIndex],
			MetricVector: rating.Calculate(counts, s.rounds),
		})
	}
	s.playerIndex++

	if s.playerIndex < len(s.roster) {
		return OutcomeAdvance, nil
	}
	if s.teamIndex == 1 {
		s.team1 = s.current
		s.current = nil
		s.state = StateEnterTeam2Tag
		return OutcomeAdvance, nil
	}
	return OutcomeCommit, nil
}

// parseCounts reads "K A D" as three non-negative integers.
func parseCounts(text string) (rating.Counts, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return rating.Counts{}, fmt.Errorf("want three numbers K A D, got %q", text)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return rating.Counts{}, fmt.Errorf("%q is not a non-negative number", p)
		}
		n[i] = v
	}
	return rating.Counts{Kills: n[0], Assists: n[1], Deaths: n[2]}, nil
}

func (s *session) record() *match.Record {
	team1 := s.team1
	if team1 == nil {
		team1 = []rating.PlayerLine{}
	}
	team2 := s.current
	if team2 == nil {
		team2 = []rating.PlayerLine{}
	}
	return &match.Record{
		TournamentID: s.tournamentID,
		Date:         s.date,
		Format:       s.format,
		Map:          s.mapName,
		Team1Tag:     s.team1Tag,
		Team2Tag:     s.team2Tag,
		Score1:       s.score1,
		Score2:       s.score2,
		TotalRounds:  s.rounds,
		Stats: map[string][]rating.PlayerLine{
			s.team1Tag: team1,
			s.team2Tag: team2,
		},
	}
}

func (s *session) result(outcome Outcome) Result {
	return Result{
		SessionID: s.id,
		Outcome:   outcome,
		State:     s.state,
		Prompt:    s.prompt(),
	}
}

func (s *session) prompt() Prompt {
	p := Prompt{State: s.state}
	switch s.state {
	case StateSelectTournament:
		t := s.tournaments[s.browseIndex]
		p.Tournament = &t
		p.Position = s.browseIndex + 1
		p.Count = len(s.tournaments)
		p.Choices = []Choice{{Label: t.Name, Value: strconv.FormatInt(t.ID, 10)}}
	case StateSelectFormat:
		p.Choices = choices(match.Formats)
	case StateSelectMap:
		p.Choices = choices(match.Maps)
	case StateEnterTeam2Tag:
		p.TeamTag = s.team1Tag
	case StateCollectingTeam1, StateCollectingTeam2:
		p.TeamTag = s.team1Tag
		if s.teamIndex == 2 {
			p.TeamTag = s.team2Tag
		}
		if s.playerIndex < len(s.roster) {
			p.Player = s.roster[s.playerIndex]
		}
		p.Index = s.playerIndex + 1
		p.Total = len(s.roster)
	}
	return p
}

func choices(values []string) []Choice {
	out := make([]Choice, len(values))
	for i, v := range values {
		out[i] = Choice{Label: v, Value: v}
	}
	return out
}

func (s *session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.id,
		OperatorID:   s.operatorID,
		State:        s.state,
		TournamentID: s.tournamentID,
		Format:       s.format,
		Date:         s.date,
		Map:          s.mapName,
		Score1:       s.score1,
		Score2:       s.score2,
		Rounds:       s.rounds,
		Team1Tag:     s.team1Tag,
		Team2Tag:     s.team2Tag,
		Roster:       append([]string(nil), s.roster...),
		TeamIndex:    s.teamIndex,
		PlayerIndex:  s.playerIndex,
		Current:      append([]rating.PlayerLine(nil), s.current...),
		Team1:        append([]rating.PlayerLine(nil), s.team1...),
		StartedAt:    s.startedAt,
	}
}
