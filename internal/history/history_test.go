package history

import (
	"path/filepath"
	"testing"

	"github.com/hyunwoolee/trendboard/internal/database"
	"github.com/hyunwoolee/trendboard/internal/naver"
	"github.com/hyunwoolee/trendboard/internal/rank"
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

func candidates(codes ...string) []*rank.Candidate {
	cands := make([]*rank.Candidate, len(codes))
	for i, c := range codes {
		cands[i] = &rank.Candidate{Stock: naver.Stock{Code: c}}
	}
	return cands
}

func TestMarkConsecutive(t *testing.T) {
	db := openTestDB(t)
	db.AppendSnapshot("2026-03-01 15:05:00", []string{"005930"}, nil)

	cands := candidates("005930", "000660")
	NewCorrelator(db).MarkConsecutive(cands, "2026-03-02")

	if !cands[0].IsConsecutive {
		t.Error("expected 005930 to be consecutive")
	}
	if cands[1].IsConsecutive {
		t.Error("expected 000660 to be new")
	}
}

func TestMarkConsecutiveEmptyHistory(t *testing.T) {
	db := openTestDB(t)

	cands := candidates("005930", "000660")
	NewCorrelator(db).MarkConsecutive(cands, "2026-03-02")

	for _, cand := range cands {
		if cand.IsConsecutive {
			t.Errorf("expected %s non-consecutive with empty history", cand.Stock.Code)
		}
	}
}

func TestMarkConsecutiveIgnoresSameDayReruns(t *testing.T) {
	db := openTestDB(t)
	// Earlier cycle today picked up 000660, but history must only look
	// at prior calendar days.
	db.AppendSnapshot("2026-03-01 15:05:00", []string{"005930"}, nil)
	db.AppendSnapshot("2026-03-02 10:05:00", []string{"000660"}, nil)

	cands := candidates("005930", "000660")
	NewCorrelator(db).MarkConsecutive(cands, "2026-03-02")

	if !cands[0].IsConsecutive {
		t.Error("expected 005930 consecutive via yesterday's final cycle")
	}
	if cands[1].IsConsecutive {
		t.Error("expected 000660 non-consecutive; same-day reruns must not count")
	}
}
