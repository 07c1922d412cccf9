package club

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrDuplicateTeam      = errors.New("team with this name or tag already exists")
	ErrPlayerNotInTeam    = errors.New("player is not on the source roster")
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Team is a registered team. Roster is the parsed, ordered list of nicknames.
type Team struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Tag    string   `json:"tag"`
	Roster []string `json:"roster"`
}

// Label renders a team the way transfers and profiles show it.
func (t Team) Label() string {
	return t.Name + " [" + t.Tag + "]"
}

// Has reports whether nickname is on the roster.
func (t Team) Has(nickname string) bool {
	for _, p := range t.Roster {
		if p == nickname {
			return true
		}
	}
	return false
}

// Tournament is a registered tournament with its prize fund and placements.
// Winners maps a place label such as "1st" to the winning team id.
type Tournament struct {
	ID      int64            `json:"id"`
	Name    string           `json:"full_name"`
	Season  string           `json:"season"`
	Year    int              `json:"year"`
	Prize   PrizeFund        `json:"prize_data"`
	Winners map[string]int64 `json:"winners"`
}

// PrizeFund is the decoded prize_data document.
type PrizeFund struct {
	Currency     string       `json:"currency"`
	Total        string       `json:"total"`
	Distribution Distribution `json:"distribution"`
}

// TournamentSort orders ListTournaments.
type TournamentSort string

const (
	SortAlpha TournamentSort = "alpha"
	SortYear  TournamentSort = "year"
)

// Transfer is one recorded roster move. Team fields hold "Name [TAG]" labels.
type Transfer struct {
	PlayerName string `json:"player_name"`
	OldTeam    string `json:"old_team"`
	NewTeam    string `json:"new_team"`
	Date       string `json:"date"`
}

// PlayerMetadata holds optional personal details for a nickname.
type PlayerMetadata struct {
	Nickname  string `json:"nickname"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RosterPlayer is a nickname together with the team whose roster lists it.
type RosterPlayer struct {
	Nickname string `json:"nickname"`
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
	TeamTag  string `json:"team_tag"`
}

// Roster splits newline-delimited roster text into trimmed nicknames,
// dropping blank lines.
func Roster(text string) []string {
	names := []string{}
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}
