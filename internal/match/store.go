package match

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/match-ledger/internal/rating"
)

const selectColumns = `id, tournament_id, game_date, game_format, map_name, team1_tag, team2_tag, score_t1, score_t2, total_rounds, stats_json, created_at`

// New creates a new match Store.
func New(db *sql.DB) Store {
	return &store{
		db:  db,
		now: func() int64 { return time.Now().Unix() },
	}
}

// Append stores a new match and returns its id. Ids come from the table's
// AUTOINCREMENT key, so they grow monotonically and are never reused even
// after a delete. Appends are serialized.
func (s *store) Append(rec *Record) (int64, error) {
	if rec == nil || rec.TournamentID == 0 || rec.Team1Tag == "" || rec.Team2Tag == "" || rec.Stats == nil {
		return 0, ErrIncomplete
	}
	statsJSON, err := json.Marshal(rec.Stats)
	if err != nil {
		return 0, fmt.Errorf("failed to encode stats: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now()
	res, err := s.db.Exec(`
		INSERT INTO matches (tournament_id, game_date, game_format, map_name, team1_tag, team2_tag, score_t1, score_t2, total_rounds, stats_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.TournamentID, rec.Date, rec.Format, rec.Map, rec.Team1Tag, rec.Team2Tag,
		rec.Score1, rec.Score2, rec.TotalRounds, string(statsJSON), createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read match id: %w", err)
	}
	rec.ID = id
	rec.CreatedAt = createdAt
	log.Info("Match stored", "matchID", id, "tournamentID", rec.TournamentID, "teams", rec.Team1Tag+" vs "+rec.Team2Tag)
	return id, nil
}

// Get returns a single match or ErrNotFound.
func (s *store) Get(id int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(id)
}

func (s *store) get(id int64) (*Record, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM matches WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns one newest-first page of a tournament's matches.
func (s *store) List(filter Filter) (Page, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}
	if filter.Page < 0 {
		filter.Page = 0
	}

	where := "WHERE tournament_id = ?"
	args := []any{filter.TournamentID}
	if filter.Date != "" {
		where += " AND game_date = ?"
		args = append(args, filter.Date)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	page := Page{Page: filter.Page, PageSize: filter.PageSize, Records: []Record{}}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM matches `+where, args...).Scan(&page.TotalCount); err != nil {
		return Page{}, fmt.Errorf("failed to count matches: %w", err)
	}
	page.TotalPages = (page.TotalCount + filter.PageSize - 1) / filter.PageSize

	rows, err := s.db.Query(
		`SELECT `+selectColumns+` FROM matches `+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, filter.PageSize, filter.Page*filter.PageSize)...,
	)
	if err != nil {
		return Page{}, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return Page{}, err
		}
		page.Records = append(page.Records, *rec)
	}
	return page, rows.Err()
}

// All returns every match, newest first. A row whose stats document cannot
// be decoded is logged and skipped so one bad record does not hide the rest.
func (s *store) All() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + selectColumns + ` FROM matches ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to read matches: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// UpdateField edits one of the editable scalars of a match. A score edit
// rewrites total_rounds as well but leaves the stored stat lines untouched.
func (s *store) UpdateField(id int64, field Field, value string) (*Record, error) {
	var (
		query string
		args  []any
	)
	value = strings.TrimSpace(value)
	switch field {
	case FieldDate:
		if utf8.RuneCountInString(value) < MinDateLength {
			return nil, fmt.Errorf("%w: date %q is too short", ErrInvalidValue, value)
		}
		query, args = `UPDATE matches SET game_date = ? WHERE id = ?`, []any{value, id}
	case FieldMap:
		if !IsMap(value) {
			return nil, fmt.Errorf("%w: unknown map %q", ErrInvalidValue, value)
		}
		query, args = `UPDATE matches SET map_name = ? WHERE id = ?`, []any{value, id}
	case FieldScore:
		s1, s2, err := ParseScore(value)
		if err != nil || s1 < 0 || s2 < 0 {
			return nil, fmt.Errorf("%w: score %q", ErrInvalidValue, value)
		}
		query, args = `UPDATE matches SET score_t1 = ?, score_t2 = ?, total_rounds = ? WHERE id = ?`, []any{s1, s2, s1 + s2, id}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	log.Info("Match field updated", "matchID", id, "field", field, "value", value)
	return s.get(id)
}

// Delete removes a match.
func (s *store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	log.Info("Match deleted", "matchID", id)
	return nil
}

// scanRecord is a helper function to scan a single match row.
func scanRecord(scanner interface{ Scan(...any) error }) (*Record, error) {
	var rec Record
	var statsJSON sql.NullString
	err := scanner.Scan(
		&rec.ID, &rec.TournamentID, &rec.Date, &rec.Format, &rec.Map, &rec.Team1Tag, &rec.Team2Tag,
		&rec.Score1, &rec.Score2, &rec.TotalRounds, &statsJSON, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Stats = map[string][]rating.PlayerLine{}
	if statsJSON.Valid && statsJSON.String != "" {
		if err := json.Unmarshal([]byte(statsJSON.String), &rec.Stats); err != nil {
			return nil, fmt.Errorf("failed to decode stats_json for match %d: %w", rec.ID, err)
		}
	}
	return &rec, nil
}
