package match

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/mauv0809/match-ledger/internal/rating"
)

var (
	ErrNotFound     = errors.New("match not found")
	ErrUnknownField = errors.New("field is not editable")
	ErrInvalidValue = errors.New("invalid value for field")
	ErrIncomplete   = errors.New("match record is missing required fields")
)

// store handles all database operations for committed matches.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() int64
}

// Record is one committed match. Stats maps a team tag to the ordered stat
// lines of the players entered for that team.
type Record struct {
	ID           int64                          `json:"id" msgpack:"id"`
	TournamentID int64                          `json:"tournament_id" msgpack:"tournament_id"`
	Date         string                         `json:"game_date" msgpack:"game_date"`
	Format       string                         `json:"game_format" msgpack:"game_format"`
	Map          string                         `json:"map_name" msgpack:"map_name"`
	Team1Tag     string                         `json:"team1_tag" msgpack:"team1_tag"`
	Team2Tag     string                         `json:"team2_tag" msgpack:"team2_tag"`
	Score1       int                            `json:"score_t1" msgpack:"score_t1"`
	Score2       int                            `json:"score_t2" msgpack:"score_t2"`
	TotalRounds  int                            `json:"total_rounds" msgpack:"total_rounds"`
	Stats        map[string][]rating.PlayerLine `json:"stats" msgpack:"stats"`
	CreatedAt    int64                          `json:"created_at" msgpack:"created_at"`
}

// DisplayID renders the id the way operators see it, zero padded to nine digits.
func (r Record) DisplayID() string {
	return fmt.Sprintf("%09d", r.ID)
}

// Winner returns the tag of the team with the higher score, or "" on a draw.
func (r Record) Winner() string {
	switch {
	case r.Score1 > r.Score2:
		return r.Team1Tag
	case r.Score2 > r.Score1:
		return r.Team2Tag
	}
	return ""
}

// Lines returns the stat lines of one side in entry order.
func (r Record) Lines(tag string) []rating.PlayerLine {
	return r.Stats[tag]
}

// Field names an editable scalar of a committed match.
type Field string

const (
	FieldDate  Field = "date"
	FieldMap   Field = "map"
	FieldScore Field = "score"
)

// Filter selects a page of matches for a tournament. Date, when set, must
// match the stored date text exactly.
type Filter struct {
	TournamentID int64
	Date         string
	Page         int
	PageSize     int
}

// Page is one page of a filtered, newest-first match listing.
type Page struct {
	Records    []Record `json:"records"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	TotalPages int      `json:"total_pages"`
	TotalCount int      `json:"total_count"`
}

// DefaultPageSize is used when a Filter does not set PageSize.
const DefaultPageSize = 5

// Formats are the supported team sizes.
var Formats = []string{"5x5", "4x4", "3x3", "2x2", "1x1"}

// Maps are the maps a match can be played on.
var Maps = []string{"Sandstone", "Province", "Rust", "Zone 7", "Hanami", "Breeze", "Dune", "Sakura"}

// MinDateLength is the shortest date text accepted for a match, in characters.
const MinDateLength = 8
