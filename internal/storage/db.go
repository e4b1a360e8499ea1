package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"clublogos/internal"
)

// DB is the run ledger. It records what each run did; pipelines never read
// their inputs from it.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  pipeline TEXT NOT NULL,
  startedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  finishedAt TEXT,
  countsJson TEXT NOT NULL DEFAULT '{}',
  timingsJson TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS downloads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  teamId TEXT NOT NULL,
  name TEXT NOT NULL,
  league TEXT NOT NULL,
  imageUrl TEXT NOT NULL,
  localPath TEXT,
  sha256 TEXT,
  bytes INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  error TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(traceId) REFERENCES runs(traceId)
);
CREATE INDEX IF NOT EXISTS idx_downloads_traceId ON downloads(traceId);

CREATE TABLE IF NOT EXISTS extractions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  position INTEGER NOT NULL,
  confederation TEXT NOT NULL,
  team TEXT NOT NULL,
  league TEXT NOT NULL,
  imageUrl TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(traceId) REFERENCES runs(traceId)
);
CREATE INDEX IF NOT EXISTS idx_extractions_traceId ON extractions(traceId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) StartRun(traceID, pipeline string) error {
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, pipeline) VALUES (?, ?)`, traceID, pipeline)
	return err
}

func (d *DB) FinishRun(traceID string, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	_, err := d.conn.Exec(`
UPDATE runs SET finishedAt = CURRENT_TIMESTAMP, countsJson = ?, timingsJson = ?
WHERE traceId = ?
`, string(countsJSON), string(timingsJSON), traceID)
	return err
}

func (d *DB) InsertDownload(row internal.DownloadRow) error {
	_, err := d.conn.Exec(`
INSERT INTO downloads (traceId, teamId, name, league, imageUrl, localPath, sha256, bytes, status, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, row.TraceID, row.TeamID, row.Name, row.League, row.ImageURL, nullable(row.LocalPath), nullable(row.SHA256), row.Bytes, string(row.Status), nullable(row.Error))
	return err
}

func (d *DB) ListDownloads(traceID string) ([]internal.DownloadRow, error) {
	rows, err := d.conn.Query(`
SELECT traceId, teamId, name, league, imageUrl, localPath, sha256, bytes, status, error
FROM downloads WHERE traceId = ? ORDER BY id ASC
`, traceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DownloadRow
	for rows.Next() {
		var row internal.DownloadRow
		var localPath, sha, status, errText sql.NullString
		if err := rows.Scan(&row.TraceID, &row.TeamID, &row.Name, &row.League, &row.ImageURL, &localPath, &sha, &row.Bytes, &status, &errText); err != nil {
			return nil, err
		}
		row.LocalPath = localPath.String
		row.SHA256 = sha.String
		row.Status = internal.DownloadStatus(status.String)
		row.Error = errText.String
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) InsertExtractions(traceID, source string, entries []internal.TeamEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO extractions (traceId, source, position, confederation, team, league, imageUrl)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(traceID, source, i+1, e.Confederation, e.Team, e.League, e.ImageURL); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) CountExtractions(traceID string) (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM extractions WHERE traceId = ?`, traceID).Scan(&n)
	return n, err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.conn.Query(`
SELECT id, traceId, pipeline, startedAt, finishedAt, countsJson, timingsJson
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		row, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetRun returns nil when no run carries the trace id.
func (d *DB) GetRun(traceID string) (*internal.RunRow, error) {
	row, err := scanRun(d.conn.QueryRow(`
SELECT id, traceId, pipeline, startedAt, finishedAt, countsJson, timingsJson
FROM runs WHERE traceId = ?
`, traceID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (internal.RunRow, error) {
	var row internal.RunRow
	var finishedAt sql.NullString
	var countsJSON, timingsJSON string
	if err := s.Scan(&row.ID, &row.TraceID, &row.Pipeline, &row.StartedAt, &finishedAt, &countsJSON, &timingsJSON); err != nil {
		return internal.RunRow{}, err
	}
	row.FinishedAt = finishedAt.String
	_ = json.Unmarshal([]byte(countsJSON), &row.Counts)
	_ = json.Unmarshal([]byte(timingsJSON), &row.Timings)
	return row, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
