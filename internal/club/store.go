package club

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

// CreateTeam registers a team. Name and tag must both be unique, ignoring case.
func (s *store) CreateTeam(name, tag string, roster []string) (*Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM teams WHERE LOWER(name) = LOWER(?) OR LOWER(tag) = LOWER(?)`, name, tag).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicateTeam
	}

	res, err := s.db.Exec(`INSERT INTO teams (name, tag, roster) VALUES (?, ?, ?)`, name, tag, strings.Join(roster, "\n"))
	if err != nil {
		return nil, fmt.Errorf("failed to insert team: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	log.Info("Team created", "teamID", id, "tag", tag, "players", len(roster))
	return &Team{ID: id, Name: name, Tag: tag, Roster: Roster(strings.Join(roster, "\n"))}, nil
}

// TeamByTag looks a team up by tag, ignoring case.
func (s *store) TeamByTag(tag string) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanTeam(s.db.QueryRow(`SELECT id, name, tag, roster FROM teams WHERE LOWER(tag) = LOWER(?) ORDER BY id LIMIT 1`, strings.TrimSpace(tag)))
}

func (s *store) TeamByID(id int64) (*Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scanTeam(s.db.QueryRow(`SELECT id, name, tag, roster FROM teams WHERE id = ?`, id))
}

// Teams returns every team in id order.
func (s *store) Teams() ([]Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teams()
}

func (s *store) teams() ([]Team, error) {
	rows, err := s.db.Query(`SELECT id, name, tag, roster FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		team, err := s.scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

// CurrentTeam returns the first team, in id order, whose roster lists the
// nickname, or nil when the player has no team.
func (s *store) CurrentTeam(nickname string) (*Team, error) {
	teams, err := s.Teams()
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		if team.Has(nickname) {
			return &team, nil
		}
	}
	return nil, nil
}

// AllRosterPlayers lists every rostered nickname sorted case-insensitively.
func (s *store) AllRosterPlayers() ([]RosterPlayer, error) {
	teams, err := s.Teams()
	if err != nil {
		return nil, err
	}
	var players []RosterPlayer
	for _, team := range teams {
		for _, nick := range team.Roster {
			players = append(players, RosterPlayer{Nickname: nick, TeamID: team.ID, TeamName: team.Name, TeamTag: team.Tag})
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		return strings.ToLower(players[i].Nickname) < strings.ToLower(players[j].Nickname)
	})
	return players, nil
}

// CreateTournament stores a tournament and returns its id.
func (s *store) CreateTournament(t *Tournament) (int64, error) {
	prizeJSON, err := json.Marshal(t.Prize)
	if err != nil {
		return 0, err
	}
	winners := t.Winners
	if winners == nil {
		winners = map[string]int64{}
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO tournaments (full_name, season, year, prize_data, winners) VALUES (?, ?, ?, ?, ?)`,
		t.Name, t.Season, t.Year, string(prizeJSON), string(winnersJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert tournament: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = id
	log.Info("Tournament created", "tournamentID", id, "name", t.Name)
	return id, nil
}

func (s *store) Tournament(id int64) (*Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tournament(id)
}

func (s *store) tournament(id int64) (*Tournament, error) {
	row := s.db.QueryRow(`SELECT id, full_name, season, year, prize_data, winners FROM tournaments WHERE id = ?`, id)
	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	return t, err
}

// ListTournaments returns every tournament, by name or newest year first.
func (s *store) ListTournaments(order TournamentSort) ([]Tournament, error) {
	orderSQL := "ORDER BY LOWER(full_name) ASC, id ASC"
	if order == SortYear {
		orderSQL = "ORDER BY year DESC, full_name ASC, id ASC"
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, full_name, season, year, prize_data, winners FROM tournaments ` + orderSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			log.Error("Failed to scan tournament row", "error", err)
			continue
		}
		tournaments = append(tournaments, *t)
	}
	return tournaments, rows.Err()
}

// SetWinner records teamID as the holder of place in a tournament.
func (s *store) SetWinner(tournamentID int64, place string, teamID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tournament(tournamentID)
	if err != nil {
		return err
	}
	t.Winners[place] = teamID
	winnersJSON, err := json.Marshal(t.Winners)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`UPDATE tournaments SET winners = ? WHERE id = ?`, string(winnersJSON), tournamentID); err != nil {
		return fmt.Errorf("failed to update winners: %w", err)
	}
	log.Info("Tournament winner set", "tournamentID", tournamentID, "place", place, "teamID", teamID)
	return nil
}

// TransferPlayer moves a nickname from one roster to another and records the move.
func (s *store) TransferPlayer(nickname string, fromTeamID, toTeamID int64, date string) (*Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, err := s.scanTeam(s.db.QueryRow(`SELECT id, name, tag, roster FROM teams WHERE id = ?`, fromTeamID))
	if err != nil {
		return nil, err
	}
	to, err := s.scanTeam(s.db.QueryRow(`SELECT id, name, tag, roster FROM teams WHERE id = ?`, toTeamID))
	if err != nil {
		return nil, err
	}
	if !from.Has(nickname) {
		return nil, ErrPlayerNotInTeam
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var remaining []string
	for _, p := range from.Roster {
		if p != nickname {
			remaining = append(remaining, p)
		}
	}
	if _, err := tx.Exec(`UPDATE teams SET roster = ? WHERE id = ?`, strings.Join(remaining, "\n"), from.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if !to.Has(nickname) {
		if _, err := tx.Exec(`UPDATE teams SET roster = ? WHERE id = ?`, strings.Join(append(to.Roster, nickname), "\n"), to.ID); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	transfer := &Transfer{PlayerName: nickname, OldTeam: from.Label(), NewTeam: to.Label(), Date: date}
	if _, err := tx.Exec(`INSERT INTO transfers (player_name, old_team, new_team, date) VALUES (?, ?, ?, ?)`,
		transfer.PlayerName, transfer.OldTeam, transfer.NewTeam, transfer.Date); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info("Player transferred", "player", nickname, "from", transfer.OldTeam, "to", transfer.NewTeam)
	return transfer, nil
}

// Transfers returns a player's recorded moves in the order they happened.
func (s *store) Transfers(nickname string) ([]Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT player_name, old_team, new_team, date FROM transfers WHERE player_name = ? ORDER BY id`, nickname)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transfers := []Transfer{}
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.PlayerName, &t.OldTeam, &t.NewTeam, &t.Date); err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// UpsertPlayerMetadata stores personal details. Empty fields keep the
// previously stored value.
func (s *store) UpsertPlayerMetadata(meta PlayerMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO player_metadata (nickname, first_name, last_name) VALUES (?, ?, ?)
		ON CONFLICT(nickname) DO UPDATE SET
			first_name = CASE WHEN excluded.first_name != '' THEN excluded.first_name ELSE player_metadata.first_name END,
			last_name = CASE WHEN excluded.last_name != '' THEN excluded.last_name ELSE player_metadata.last_name END`,
		meta.Nickname, meta.FirstName, meta.LastName)
	return err
}

// PlayerMetadata returns stored details, or just the nickname when none exist.
func (s *store) PlayerMetadata(nickname string) (PlayerMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := PlayerMetadata{Nickname: nickname}
	err := s.db.QueryRow(`SELECT first_name, last_name FROM player_metadata WHERE nickname = ?`, nickname).Scan(&meta.FirstName, &meta.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, nil
	}
	return meta, err
}

// scanTeam is a helper function to scan a single team row.
func (s *store) scanTeam(scanner interface{ Scan(...any) error }) (*Team, error) {
	var team Team
	var roster sql.NullString
	err := scanner.Scan(&team.ID, &team.Name, &team.Tag, &roster)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	team.Roster = Roster(roster.String)
	return &team, nil
}

func scanTournament(scanner interface{ Scan(...any) error }) (*Tournament, error) {
	var t Tournament
	var prizeJSON, winnersJSON sql.NullString
	if err := scanner.Scan(&t.ID, &t.Name, &t.Season, &t.Year, &prizeJSON, &winnersJSON); err != nil {
		return nil, err
	}

	if prizeJSON.Valid && prizeJSON.String != "" {
		if err := json.Unmarshal([]byte(prizeJSON.String), &t.Prize); err != nil {
			log.Error("Failed to unmarshal prize_data", "error", err, "tournamentID", t.ID)
		}
	}
	winners, err := decodeWinners(winnersJSON.String)
	if err != nil {
		log.Error("Failed to unmarshal winners", "error", err, "tournamentID", t.ID)
		winners = map[string]int64{}
	}
	t.Winners = winners
	return &t, nil
}
