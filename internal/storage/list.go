package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/scalint/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.source, r.ir_version, r.status,
		       (SELECT COUNT(1) FROM findings f WHERE f.run_id = r.id) AS findings
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Source, &rr.IRVersion, &rr.Status, &rr.Findings); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, startedAtStr); err == nil {
			rr.StartedAt = t
		} else if t2, err2 := time.Parse(time.RFC3339, startedAtStr); err2 == nil {
			rr.StartedAt = t2
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns findings for a run at or above a minimum severity, in
// the canonical report order.
func (db *DB) ListFindings(runID, minSeverity string) ([]ir.Finding, error) {
	const q = `
		SELECT rule_id, file, line, col, severity, message, snippet
		  FROM findings
		 WHERE run_id = ?
		   AND (CASE severity WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		       >= (CASE ? WHEN 'error' THEN 3 WHEN 'warning' THEN 2 ELSE 1 END)
		 ORDER BY file, line, col, rule_id, message`
	rows, err := db.conn.Query(q, runID, minSeverity)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Finding
	for rows.Next() {
		var f ir.Finding
		var sev string
		if err := rows.Scan(&f.RuleID, &f.Loc.File, &f.Loc.Line, &f.Loc.Col, &sev, &f.Message, &f.Snippet); err != nil {
			return nil, err
		}
		if v, ok := ir.ParseSeverity(sev); ok {
			f.Severity = v
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// HasRun reports whether a run id exists.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
