package server

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyunwoolee/trendboard/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func seedCycle(t *testing.T, db *database.DB, cycleTS string) {
	t.Helper()
	rows := []database.ReportRow{
		{
			CycleTS: cycleTS, Market: "KOSPI", Code: "005930", Name: "삼성전자",
			Price: 71000, PostCount: 80, Sentiment: ptr("Positive (67%)"),
			TopKeywords: ptr("반도체, 실적"), IsConsecutive: true,
		},
	}
	if err := db.InsertRecords(cycleTS, rows); err != nil {
		t.Fatalf("failed to seed records: %v", err)
	}
	if _, err := db.InsertDigest(cycleTS, "## 급상승 종목\n\n- 삼성전자", 1); err != nil {
		t.Fatalf("failed to seed digest: %v", err)
	}
	if _, err := db.AppendSnapshot(cycleTS, []string{"005930"}, nil); err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	seedCycle(t, db, "2026-03-02 10:05:00")

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "2026-03-02 10:05:00") {
		t.Error("expected cycle timestamp in response body")
	}
}

func TestCycleRoute(t *testing.T) {
	db := openTestDB(t)
	seedCycle(t, db, "2026-03-02 10:05:00")

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/cycle/2026-03-02%2010:05:00", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "삼성전자") {
		t.Error("expected record name in response")
	}
	if !strings.Contains(body, "Positive (67%)") {
		t.Error("expected sentiment in response")
	}
	// Digest markdown should render to HTML.
	if !strings.Contains(body, "<h2") {
		t.Error("expected rendered digest heading in response")
	}
}

func TestCycleRouteUnknownCycle(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/cycle/2020-01-01%2009:00:00", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for empty cycle page, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No records") {
		t.Error("expected empty-cycle notice")
	}
}

func TestStatsRoute(t *testing.T) {
	db := openTestDB(t)
	seedCycle(t, db, "2026-03-02 10:05:00")

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Snapshot log") {
		t.Error("expected snapshot log section")
	}
	if !strings.Contains(body, "1 codes") {
		t.Error("expected snapshot code count")
	}
}

func TestStaticRoute(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "font-sans") {
		t.Error("expected CSS content")
	}
}
