package leaderboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/achievements"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/match"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/rating"
)

// New creates a new Aggregator.
func New(matches Matches, clubs Clubs, metrics metrics.Metrics) Aggregator {
	return &aggregator{
		matches: matches,
		clubs:   clubs,
		metrics: metrics,
	}
}

// Standings returns every player who has a stat line, best score first.
// Ties keep the order in which players were first seen, newest match first.
func (a *aggregator) Standings() ([]Entry, error) {
	standings, _, err := a.fold("")
	return standings, err
}

// Top returns the n best players. n defaults to 10 and is capped at 100.
func (a *aggregator) Top(n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultTop
	}
	if n > MaxTop {
		n = MaxTop
	}

	standings, err := a.Standings()
	if err != nil {
		return nil, err
	}
	if len(standings) > n {
		standings = standings[:n]
	}
	for i := range standings {
		standings[i].Score = rating.Round2(standings[i].Score)
	}
	return standings, nil
}

// Rank returns the 1-based position of nickname, or Unranked.
func (a *aggregator) Rank(nickname string) (int, error) {
	standings, err := a.Standings()
	if err != nil {
		return Unranked, err
	}
	return rankOf(standings, nickname), nil
}

func (a *aggregator) Profile(nickname string) (*Profile, error) {
	standings, recent, err := a.fold(nickname)
	if err != nil {
		return nil, err
	}

	team, err := a.clubs.CurrentTeam(nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current team: %w", err)
	}

	rank := rankOf(standings, nickname)
	if rank == Unranked && team == nil {
		return nil, ErrPlayerNotFound
	}

	p := &Profile{
		Nickname:     nickname,
		Team:         noTeam,
		Rank:         rank,
		LastMatches:  recent,
		Achievements: []achievements.Achievement{},
	}
	if p.LastMatches == nil {
		p.LastMatches = []string{}
	}

	var e Entry
	if rank != Unranked {
		e = standings[rank-1]
	}
	p.Kills, p.Assists, p.Deaths = e.Kills, e.Assists, e.Deaths
	p.Diff = e.Kills - e.Deaths
	p.Helps = e.Assists
	p.Matches = e.Matches
	p.Rounds = e.Rounds
	p.Rates = rating.Lifetime(e.Kills, e.Assists, e.Deaths, e.Rounds)
	p.AvgRating = rating.Round2(e.AvgRating())
	p.Score = rating.Round2(e.Score)

	meta, err := a.clubs.PlayerMetadata(nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to load player metadata: %w", err)
	}
	p.FirstName, p.LastName = meta.FirstName, meta.LastName

	if p.Transfers, err = a.clubs.Transfers(nickname); err != nil {
		return nil, fmt.Errorf("failed to load transfers: %w", err)
	}
	if p.Transfers == nil {
		p.Transfers = []club.Transfer{}
	}

	if team != nil {
		p.Team = team.Label()
		p.TeamID = team.ID

		tournaments, err := a.clubs.ListTournaments(club.SortYear)
		if err != nil {
			return nil, fmt.Errorf("failed to list tournaments: %w", err)
		}
		p.Achievements = achievements.Derive(tournaments, team.ID)
	}

	log.Debug("Built player profile", "player", nickname, "rank", p.RankLabel(), "matches", p.Matches)
	return p, nil
}

// fold scans every match and sums each player's lines. When target is set
// it also collects up to three summaries of the newest matches target
// played in.
func (a *aggregator) fold(target string) ([]Entry, []string, error) {
	start := time.Now()
	defer func() {
		a.metrics.ObserveLeaderboardDuration(time.Since(start).Seconds())
	}()

	records, err := a.matches.All()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load matches: %w", err)
	}

	index := make(map[string]int)
	var entries []Entry
	var recent []string

	for _, rec := range records {
		played := false
		for _, tag := range sideOrder(rec) {
			for _, line := range rec.Stats[tag] {
				if line.Nickname == "" {
					continue
				}
				i, ok := index[line.Nickname]
				if !ok {
					i = len(entries)
					index[line.Nickname] = i
					entries = append(entries, Entry{Nickname: line.Nickname})
				}
				e := &entries[i]
				e.Kills += line.K
				e.Assists += line.A
				e.Deaths += line.D
				e.RatingSum += line.Rating
				e.Matches++
				e.Rounds += rec.TotalRounds

				if line.Nickname == target {
					played = true
				}
			}
		}
		if played && len(recent) < recentMax {
			recent = append(recent, summary(rec))
		}
	}

	for i := range entries {
		entries[i].Score = score(entries[i])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	log.Debug("Folded match history", "matches", len(records), "players", len(entries))
	return entries, recent, nil
}

func score(e Entry) float64 {
	return float64(e.Kills)*killWeight +
		float64(e.Assists)*assistWeight -
		float64(e.Deaths)*deathWeight +
		e.AvgRating()*ratingWeight
}

func rankOf(standings []Entry, nickname string) int {
	for i, e := range standings {
		if e.Nickname == nickname {
			return i + 1
		}
	}
	return Unranked
}

// sideOrder lists the stat document keys with team 1 first, team 2 second
// and any others alphabetically after them.
func sideOrder(rec match.Record) []string {
	tags := make([]string, 0, len(rec.Stats))
	if _, ok := rec.Stats[rec.Team1Tag]; ok {
		tags = append(tags, rec.Team1Tag)
	}
	if _, ok := rec.Stats[rec.Team2Tag]; ok && rec.Team2Tag != rec.Team1Tag {
		tags = append(tags, rec.Team2Tag)
	}
	var rest []string
	for tag := range rec.Stats {
		if tag != rec.Team1Tag && tag != rec.Team2Tag {
			rest = append(rest, tag)
		}
	}
	sort.Strings(rest)
	return append(tags, rest...)
}

// summary renders a match as "Dune (13:11) [A] vs [B]".
func summary(rec match.Record) string {
	t1, t2 := rec.Team1Tag, rec.Team2Tag
	if t1 == "" {
		t1 = "?"
	}
	if t2 == "" {
		t2 = "?"
	}
	return fmt.Sprintf("%s (%d:%d) [%s] vs [%s]", rec.Map, rec.Score1, rec.Score2, t1, t2)
}
