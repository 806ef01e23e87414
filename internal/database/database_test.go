package database

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "trend.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("expected path %s, got %s", path, db.Path())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file on disk: %v", err)
	}
}

func TestAppendAndListSnapshots(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.AppendSnapshot("2026-03-01 10:05:00", []string{"005930", "000660"}, ptr("trending_20260301_100500.csv")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := db.AppendSnapshot("2026-03-01 15:05:00", []string{"005930"}, nil); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	snapshots, err := db.ListSnapshots()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snapshots))
	}
	// Insertion order preserved, oldest first.
	if snapshots[0].CycleTS != "2026-03-01 10:05:00" {
		t.Errorf("unexpected first snapshot: %s", snapshots[0].CycleTS)
	}
	if !snapshots[0].Contains("000660") {
		t.Error("expected first snapshot to contain 000660")
	}
	if snapshots[0].FileRef == nil || *snapshots[0].FileRef != "trending_20260301_100500.csv" {
		t.Error("file reference not preserved")
	}
}

func TestLatestSnapshotBefore(t *testing.T) {
	db := openTestDB(t)

	db.AppendSnapshot("2026-02-27 15:05:00", []string{"005930"}, nil)
	db.AppendSnapshot("2026-03-01 10:05:00", []string{"000660"}, nil)
	db.AppendSnapshot("2026-03-01 15:05:00", []string{"035720"}, nil)
	db.AppendSnapshot("2026-03-02 10:05:00", []string{"005380"}, nil) // today's rerun

	// The last cycle of the most recent prior day wins; today's rows are ignored.
	s, err := db.LatestSnapshotBefore("2026-03-02")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if s == nil {
		t.Fatal("expected a snapshot")
	}
	if s.CycleTS != "2026-03-01 15:05:00" {
		t.Errorf("expected 2026-03-01 15:05:00, got %s", s.CycleTS)
	}
	if !s.Contains("035720") {
		t.Error("expected codes from the evening cycle")
	}
}

func TestLatestSnapshotBeforeEmptyLog(t *testing.T) {
	db := openTestDB(t)

	s, err := db.LatestSnapshotBefore("2026-03-02")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil snapshot on empty log, got %+v", s)
	}
}

func TestInsertAndReadRecords(t *testing.T) {
	db := openTestDB(t)

	rows := []ReportRow{
		{Market: "KOSPI", Code: "005930", Name: "삼성전자", Price: 71000, PostCount: 80,
			Sentiment: ptr("Positive (67%)"), IsConsecutive: true},
		{Market: "KOSDAQ", Code: "196170", Name: "알테오젠", Price: 305000, PostCount: 45},
	}
	if err := db.InsertRecords("2026-03-02 10:05:00", rows); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, err := db.RecordsForCycle("2026-03-02 10:05:00")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Rank != 1 || got[1].Rank != 2 {
		t.Errorf("rank order not preserved: %d, %d", got[0].Rank, got[1].Rank)
	}
	if !got[0].IsConsecutive || got[1].IsConsecutive {
		t.Error("consecutive flags not round-tripped")
	}
	if got[0].Sentiment == nil || *got[0].Sentiment != "Positive (67%)" {
		t.Error("sentiment not round-tripped")
	}

	cycles, err := db.ListCycles()
	if err != nil {
		t.Fatalf("list cycles failed: %v", err)
	}
	if len(cycles) != 1 || cycles[0] != "2026-03-02 10:05:00" {
		t.Errorf("unexpected cycles: %v", cycles)
	}
}

func TestDigestRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.InsertDigest("2026-03-02 10:05:00", "# 트렌드\n\n- 삼성전자", 1); err != nil {
		t.Fatalf("insert digest failed: %v", err)
	}

	d, err := db.GetDigest("2026-03-02 10:05:00")
	if err != nil {
		t.Fatalf("get digest failed: %v", err)
	}
	if d == nil || d.RecordCount != 1 {
		t.Fatalf("unexpected digest: %+v", d)
	}

	missing, err := db.GetDigest("2026-03-03 10:05:00")
	if err != nil {
		t.Fatalf("get missing digest failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing digest")
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	db.AppendSnapshot("2026-03-01 15:05:00", []string{"005930"}, nil)
	db.InsertRecords("2026-03-01 15:05:00", []ReportRow{
		{Market: "KOSPI", Code: "005930", Name: "삼성전자", PostCount: 70, IsConsecutive: true},
	})

	s, err := db.GetStats()
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if s.Snapshots != 1 || s.Cycles != 1 || s.Records != 1 || s.Consecutive != 1 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if s.LastCycle != "2026-03-01 15:05:00" {
		t.Errorf("unexpected last cycle: %s", s.LastCycle)
	}
}

func TestCycleDate(t *testing.T) {
	if got := CycleDate("2026-03-02 10:05:00"); got != "2026-03-02" {
		t.Errorf("expected 2026-03-02, got %s", got)
	}
}
