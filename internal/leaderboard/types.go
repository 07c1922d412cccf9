package leaderboard

import (
	"errors"
	"strconv"

	"github.com/mauv0809/match-ledger/internal/achievements"
	"github.com/mauv0809/match-ledger/internal/club"
	"github.com/mauv0809/match-ledger/internal/metrics"
	"github.com/mauv0809/match-ledger/internal/rating"
)

var ErrPlayerNotFound = errors.New("player not found")

// Unranked is the rank of a player that has no stat lines.
const Unranked = 0

const (
	DefaultTop = 10
	MaxTop     = 100
	recentMax  = 3
	noTeam     = "No team"
)

// Score weights.
const (
	killWeight   = 2.0
	assistWeight = 1.0
	deathWeight  = 0.5
	ratingWeight = 100.0
)

type aggregator struct {
	matches Matches
	clubs   Clubs
	metrics metrics.Metrics
}

// Entry is one player's lifetime totals and ranking score.
type Entry struct {
	Nickname  string  `json:"nickname"`
	Kills     int     `json:"kills"`
	Assists   int     `json:"assists"`
	Deaths    int     `json:"deaths"`
	RatingSum float64 `json:"rating_sum"`
	Matches   int     `json:"matches"`
	Rounds    int     `json:"rounds"`
	Score     float64 `json:"score"`
}

// AvgRating is the mean stored RATING across the player's matches.
func (e Entry) AvgRating() float64 {
	if e.Matches == 0 {
		return 0
	}
	return e.RatingSum / float64(e.Matches)
}

// Profile is a player's full lifetime view.
type Profile struct {
	Nickname     string                     `json:"nickname"`
	FirstName    string                     `json:"first_name"`
	LastName     string                     `json:"last_name"`
	Team         string                     `json:"current_team"`
	TeamID       int64                      `json:"current_team_id"`
	Kills        int                        `json:"kills"`
	Assists      int                        `json:"assists"`
	Deaths       int                        `json:"deaths"`
	Diff         int                        `json:"diff"`
	Helps        int                        `json:"helps"`
	Matches      int                        `json:"matches"`
	Rounds       int                        `json:"rounds"`
	Rates        rating.Rates               `json:"rates"`
	AvgRating    float64                    `json:"avg_rating"`
	Score        float64                    `json:"score"`
	Rank         int                        `json:"rank"`
	LastMatches  []string                   `json:"last_3_games"`
	Transfers    []club.Transfer            `json:"transfers"`
	Achievements []achievements.Achievement `json:"achievements"`
}

// RankLabel renders the rank, "-" when unranked.
func (p Profile) RankLabel() string {
	return RankLabel(p.Rank)
}

// RankLabel renders a rank, "-" when unranked.
func RankLabel(rank int) string {
	if rank == Unranked {
		return "-"
	}
	return strconv.Itoa(rank)
}
