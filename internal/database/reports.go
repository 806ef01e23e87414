package database

import (
	"database/sql"
	"fmt"
)

// InsertRecords persists one cycle's report rows in rank order.
func (db *DB) InsertRecords(cycleTS string, rows []ReportRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin report insert: %w", err)
	}

	for i, r := range rows {
		_, err := tx.Exec(
			`INSERT INTO reports
			(cycle_ts, market, code, name, price, foreign_rate, prev_foreign_rate,
			 prev_close, change_rate, post_count, posts_summary, sentiment,
			 top_keywords, is_consecutive, rank)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			cycleTS, r.Market, r.Code, r.Name, r.Price, r.ForeignRate, r.PrevForeignRate,
			r.PrevClose, r.ChangeRate, r.PostCount, r.PostsSummary, r.Sentiment,
			r.TopKeywords, boolToInt(r.IsConsecutive), i+1,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting report row %s: %w", r.Code, err)
		}
	}

	return tx.Commit()
}

// RecordsForCycle returns a cycle's report rows in rank order.
func (db *DB) RecordsForCycle(cycleTS string) ([]ReportRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, cycle_ts, market, code, name, price, foreign_rate, prev_foreign_rate,
		 prev_close, change_rate, post_count, posts_summary, sentiment,
		 top_keywords, is_consecutive, rank
		FROM reports WHERE cycle_ts = ? ORDER BY rank ASC`, cycleTS,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ReportRow
	for rows.Next() {
		var r ReportRow
		var consecutive int
		if err := rows.Scan(&r.ID, &r.CycleTS, &r.Market, &r.Code, &r.Name, &r.Price,
			&r.ForeignRate, &r.PrevForeignRate, &r.PrevClose, &r.ChangeRate,
			&r.PostCount, &r.PostsSummary, &r.Sentiment, &r.TopKeywords,
			&consecutive, &r.Rank); err != nil {
			return nil, err
		}
		r.IsConsecutive = consecutive != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListCycles returns the distinct cycle timestamps, newest first.
func (db *DB) ListCycles() ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT DISTINCT cycle_ts FROM reports ORDER BY cycle_ts DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []string
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		cycles = append(cycles, ts)
	}
	return cycles, rows.Err()
}

// InsertDigest inserts or replaces the markdown digest for a cycle.
func (db *DB) InsertDigest(cycleTS, bodyMarkdown string, recordCount int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT OR REPLACE INTO digests (cycle_ts, body_markdown, record_count)
		VALUES (?, ?, ?)`,
		cycleTS, bodyMarkdown, recordCount,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetDigest returns the digest for a cycle, or nil if absent.
func (db *DB) GetDigest(cycleTS string) (*Digest, error) {
	row := db.conn.QueryRow(
		`SELECT id, cycle_ts, body_markdown, record_count, generated_at
		FROM digests WHERE cycle_ts = ?`, cycleTS,
	)

	var d Digest
	if err := row.Scan(&d.ID, &d.CycleTS, &d.BodyMarkdown, &d.RecordCount, &d.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM snapshots", &s.Snapshots},
		{"SELECT COUNT(DISTINCT cycle_ts) FROM reports", &s.Cycles},
		{"SELECT COUNT(*) FROM reports", &s.Records},
		{"SELECT COUNT(*) FROM reports WHERE is_consecutive = 1", &s.Consecutive},
	}
	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	row := db.conn.QueryRow("SELECT COALESCE(MAX(cycle_ts), '') FROM snapshots")
	if err := row.Scan(&s.LastCycle); err != nil {
		return nil, err
	}

	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
