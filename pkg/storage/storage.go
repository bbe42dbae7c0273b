package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sw33tLie/scoutqr/pkg/tba"
	_ "modernc.org/sqlite"
)

var ErrEmptyRecord = errors.New("empty record")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS records (
  id          TEXT PRIMARY KEY,
  raw         TEXT NOT NULL UNIQUE,
  event       TEXT NOT NULL,
  match_key   TEXT NOT NULL,
  team        TEXT NOT NULL DEFAULT '',
  scouter     TEXT NOT NULL DEFAULT '',
  scanned_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_event ON records(event, match_key);
CREATE TABLE IF NOT EXISTS event_teams (
  event       TEXT NOT NULL,
  team_key    TEXT NOT NULL,
  team_number INTEGER NOT NULL,
  nickname    TEXT,
  PRIMARY KEY (event, team_key)
);
CREATE TABLE IF NOT EXISTS event_matches (
  event        TEXT NOT NULL,
  match_key    TEXT NOT NULL,
  comp_level   TEXT NOT NULL,
  match_number INTEGER NOT NULL,
  red          TEXT NOT NULL,
  blue         TEXT NOT NULL,
  fetched_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (event, match_key)
);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// SaveRecord stores a scanned record. Scanning the same payload twice is a
// no-op; added reports whether a row was inserted.
func (d *DB) SaveRecord(ctx context.Context, r Record) (added bool, err error) {
	if strings.TrimSpace(r.Raw) == "" {
		return false, ErrEmptyRecord
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ScannedAt.IsZero() {
		r.ScannedAt = time.Now().UTC()
	}
	res, err := d.sql.ExecContext(ctx, `INSERT INTO records(id, raw, event, match_key, team, scouter, scanned_at) VALUES(?,?,?,?,?,?,?) ON CONFLICT(raw) DO NOTHING`,
		r.ID, r.Raw, r.Event, r.MatchKey, r.Team, r.Scouter, r.ScannedAt.UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRecords returns stored records, oldest first.
func (d *DB) ListRecords(ctx context.Context, opts ListOptions) ([]Record, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Event != "" {
		where += " AND event = ?"
		args = append(args, opts.Event)
	}
	if opts.Team != "" {
		where += " AND team = ?"
		args = append(args, opts.Team)
	}
	if !opts.Since.IsZero() {
		where += " AND scanned_at >= ?"
		args = append(args, opts.Since.UTC())
	}
	q := "SELECT id, raw, event, match_key, team, scouter, scanned_at FROM records " + where + " ORDER BY scanned_at, id"
	if opts.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var scannedAt interface{}
		if err := rows.Scan(&r.ID, &r.Raw, &r.Event, &r.MatchKey, &r.Team, &r.Scouter, &scannedAt); err != nil {
			return nil, err
		}
		r.ScannedAt = parseTime(scannedAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveSchedule replaces the stored roster and schedule of an event.
func (d *DB) SaveSchedule(ctx context.Context, event string, teams []tba.Team, matches []tba.Match) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if len(teams) > 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM event_teams WHERE event = ?", event); err != nil {
			return err
		}
		for _, t := range teams {
			if _, err = tx.ExecContext(ctx, "INSERT INTO event_teams(event, team_key, team_number, nickname) VALUES(?,?,?,?)", event, t.Key, t.Number, nullIfEmpty(t.Nickname)); err != nil {
				return err
			}
		}
	}

	if len(matches) > 0 {
		if _, err = tx.ExecContext(ctx, "DELETE FROM event_matches WHERE event = ?", event); err != nil {
			return err
		}
		for _, m := range matches {
			if _, err = tx.ExecContext(ctx, "INSERT INTO event_matches(event, match_key, comp_level, match_number, red, blue) VALUES(?,?,?,?,?,?)",
				event, m.Key, m.CompLevel, m.MatchNumber, strings.Join(m.Red, ","), strings.Join(m.Blue, ",")); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// LoadSchedule returns the stored roster and schedule of an event. Both are
// empty when nothing has been saved.
func (d *DB) LoadSchedule(ctx context.Context, event string) ([]tba.Team, []tba.Match, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT team_key, team_number, nickname FROM event_teams WHERE event = ? ORDER BY team_number", event)
	if err != nil {
		return nil, nil, err
	}
	var teams []tba.Team
	for rows.Next() {
		var t tba.Team
		var nick sql.NullString
		if err := rows.Scan(&t.Key, &t.Number, &nick); err != nil {
			rows.Close()
			return nil, nil, err
		}
		t.Nickname = nick.String
		teams = append(teams, t)
	}
	if err := rows.Close(); err != nil {
		return nil, nil, err
	}

	rows, err = d.sql.QueryContext(ctx, "SELECT match_key, comp_level, match_number, red, blue FROM event_matches WHERE event = ? ORDER BY comp_level, match_number", event)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var matches []tba.Match
	for rows.Next() {
		var m tba.Match
		var red, blue string
		if err := rows.Scan(&m.Key, &m.CompLevel, &m.MatchNumber, &red, &blue); err != nil {
			return nil, nil, err
		}
		m.Red = splitKeys(red)
		m.Blue = splitKeys(blue)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return teams, matches, nil
}

// DeleteRecord removes a record by id, or by raw payload when no id
// matches. It reports whether a row was removed.
func (d *DB) DeleteRecord(ctx context.Context, idOrRaw string) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM records WHERE id = ? OR raw = ?", idOrRaw, NormalizeRaw(idOrRaw))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountRecords returns how many records an event has, or all records when
// event is empty.
func (d *DB) CountRecords(ctx context.Context, event string) (int, error) {
	q := "SELECT COUNT(*) FROM records"
	args := []interface{}{}
	if event != "" {
		q += " WHERE event = ?"
		args = append(args, event)
	}
	var n int
	if err := d.sql.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *DB) GetStats(ctx context.Context) ([]EventStats, error) {
	query := `
		SELECT
			event,
			COUNT(*),
			COUNT(DISTINCT match_key),
			COUNT(DISTINCT NULLIF(team, ''))
		FROM
			records
		GROUP BY
			event
		ORDER BY
			event;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []EventStats
	for rows.Next() {
		var s EventStats
		if err := rows.Scan(&s.Event, &s.RecordCount, &s.MatchCount, &s.TeamCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// parseTime accepts what the driver hands back for a DATETIME column.
func parseTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
