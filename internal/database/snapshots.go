package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// AppendSnapshot appends one cycle's qualifying set to the snapshot log.
func (db *DB) AppendSnapshot(cycleTS string, codes []string, fileRef *string) (int64, error) {
	if codes == nil {
		codes = []string{}
	}
	encoded, err := json.Marshal(codes)
	if err != nil {
		return 0, fmt.Errorf("encoding snapshot codes: %w", err)
	}

	result, err := db.conn.Exec(
		"INSERT INTO snapshots (cycle_ts, codes, file_ref) VALUES (?, ?, ?)",
		cycleTS, string(encoded), fileRef,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// LatestSnapshotBefore returns the newest snapshot whose calendar date
// strictly precedes date (YYYY-MM-DD). Intra-day reruns on the same day
// never match. Returns nil when no such snapshot exists.
func (db *DB) LatestSnapshotBefore(date string) (*Snapshot, error) {
	row := db.conn.QueryRow(
		`SELECT id, cycle_ts, codes, file_ref FROM snapshots
		WHERE date(cycle_ts) < ?
		ORDER BY cycle_ts DESC LIMIT 1`, date,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns all snapshots, oldest first.
func (db *DB) ListSnapshots() ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT id, cycle_ts, codes, file_ref FROM snapshots ORDER BY cycle_ts ASC, id ASC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		s, err := scanSnapshotRows(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *s)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var encoded string
	if err := row.Scan(&s.ID, &s.CycleTS, &encoded, &s.FileRef); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &s.Codes); err != nil {
		// Corrupt snapshot: treat as empty rather than failing the cycle.
		s.Codes = nil
	}
	return &s, nil
}

func scanSnapshotRows(rows *sql.Rows) (*Snapshot, error) {
	var s Snapshot
	var encoded string
	if err := rows.Scan(&s.ID, &s.CycleTS, &encoded, &s.FileRef); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(encoded), &s.Codes); err != nil {
		s.Codes = nil
	}
	return &s, nil
}
