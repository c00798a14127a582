package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/scalint/internal/ir"
)

// DB is the concrete run archive backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures all tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  started_at  TEXT,          -- RFC3339
  source      TEXT,
  ir_version  TEXT,
  status      TEXT,
  report_json TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS findings (
  run_id   TEXT NOT NULL,
  rule_id  TEXT NOT NULL,
  file     TEXT,
  line     INTEGER,
  col      INTEGER,
  severity TEXT,
  message  TEXT,
  snippet  TEXT,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule_id);

CREATE TABLE IF NOT EXISTS parse_failures (
  run_id TEXT NOT NULL,
  path   TEXT NOT NULL,
  reason TEXT,
  FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule_id     TEXT NOT NULL,
  path        TEXT,              -- optional path prefix; NULL = any
  pattern_sub TEXT,              -- optional substring to match message/snippet
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	return err
}

// SaveReport upserts a report JSON and (re)writes its findings and parse
// failures.
func (db *DB) SaveReport(rep *ir.Report) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	ts := rep.StartedAt.UTC().Format(time.RFC3339Nano)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO runs (id, started_at, source, ir_version, status, report_json)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at, source=excluded.source,
           ir_version=excluded.ir_version, status=excluded.status, report_json=excluded.report_json`,
		rep.ID, ts, rep.Source, rep.IRVersion, string(rep.Status), string(b),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM findings WHERE run_id = ?`, rep.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM parse_failures WHERE run_id = ?`, rep.ID); err != nil {
		return err
	}

	if len(rep.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings (run_id, rule_id, file, line, col, severity, message, snippet)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, f := range rep.Findings {
			if _, err := stmt.Exec(
				rep.ID, f.RuleID, f.Loc.File, f.Loc.Line, f.Loc.Col,
				f.Severity.String(), f.Message, f.Snippet,
			); err != nil {
				return err
			}
		}
	}

	for _, pf := range rep.Failures {
		if _, err := tx.Exec(`INSERT INTO parse_failures (run_id, path, reason) VALUES (?, ?, ?)`,
			rep.ID, pf.Path, pf.Reason); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadReport returns the full report (from stored JSON).
func (db *DB) LoadReport(id string) (ir.Report, error) {
	var s string
	row := db.conn.QueryRow(`SELECT report_json FROM runs WHERE id = ?`, id)
	if err := row.Scan(&s); err != nil {
		return ir.Report{}, err
	}
	var rep ir.Report
	if err := json.Unmarshal([]byte(s), &rep); err != nil {
		return ir.Report{}, err
	}
	return rep, nil
}

// LoadLatestReport returns the most recently started run.
func (db *DB) LoadLatestReport() (ir.Report, error) {
	var id string
	row := db.conn.QueryRow(`SELECT id FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.Report{}, err
		}
		return ir.Report{}, err
	}
	return db.LoadReport(id)
}
