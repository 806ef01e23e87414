package rank

import (
	"errors"
	"testing"
	"time"

	"github.com/hyunwoolee/trendboard/internal/board"
	"github.com/hyunwoolee/trendboard/internal/naver"
)

// fakeProber returns a canned post count per security.
type fakeProber struct {
	counts map[string]int
	probed []string
}

func (f *fakeProber) Collect(securityID string, cutoff time.Time) board.ActivityWindow {
	f.probed = append(f.probed, securityID)
	win := board.ActivityWindow{SecurityID: securityID, Cutoff: cutoff}
	for i := 0; i < f.counts[securityID]; i++ {
		win.Posts = append(win.Posts, board.Post{Title: "post", PostedAt: cutoff.Add(time.Minute)})
	}
	return win
}

type fakeDetails struct {
	err   error
	calls int
}

func (f *fakeDetails) StaticDetails(code string) (naver.Details, error) {
	f.calls++
	if f.err != nil {
		return naver.Details{}, f.err
	}
	return naver.Details{ForeignRate: "53.12%", PrevClose: 70000}, nil
}

func universe(codes ...string) []naver.Stock {
	stocks := make([]naver.Stock, len(codes))
	for i, c := range codes {
		stocks[i] = naver.Stock{Market: "KOSPI", Code: c, Name: "stock-" + c}
	}
	return stocks
}

var cutoff = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestRankFiltersByThreshold(t *testing.T) {
	prober := &fakeProber{counts: map[string]int{"A": 50, "B": 10, "C": 80}}
	ranker := NewRanker(prober, nil, nil, 30)

	cands, result := ranker.Rank(universe("A", "B", "C"), cutoff, 20)

	if result.Probed != 3 || result.Qualified != 2 || result.Rejected != 1 {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	// Universe order preserved; ordering by post count is the report's job.
	if cands[0].Stock.Code != "A" || cands[1].Stock.Code != "C" {
		t.Errorf("expected [A C], got [%s %s]", cands[0].Stock.Code, cands[1].Stock.Code)
	}
}

func TestRankEnforcesProbeCap(t *testing.T) {
	prober := &fakeProber{counts: map[string]int{"A": 99, "B": 99, "C": 99, "D": 99}}
	ranker := NewRanker(prober, nil, nil, 2)

	cands, result := ranker.Rank(universe("A", "B", "C", "D"), cutoff, 20)

	if result.Probed != 2 {
		t.Errorf("expected 2 probes under cap, got %d", result.Probed)
	}
	if len(prober.probed) != 2 {
		t.Errorf("expected probes for first 2 securities, got %v", prober.probed)
	}
	if len(cands) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(cands))
	}
}

func TestRankProbeFailureExcludesSecurityOnly(t *testing.T) {
	// A failed probe surfaces as an empty window (the collector keeps
	// whatever it had), which any positive threshold rejects.
	prober := &fakeProber{counts: map[string]int{"A": 0, "B": 30}}
	ranker := NewRanker(prober, nil, nil, 30)

	cands, result := ranker.Rank(universe("A", "B"), cutoff, 20)

	if len(cands) != 1 || cands[0].Stock.Code != "B" {
		t.Fatalf("expected only B to survive, got %d candidates", len(cands))
	}
	if result.Rejected != 1 {
		t.Errorf("expected 1 rejection, got %d", result.Rejected)
	}
}

func TestRankDetailFailureKeepsCandidate(t *testing.T) {
	prober := &fakeProber{counts: map[string]int{"A": 30}}
	details := &fakeDetails{err: errors.New("HTTP 403")}
	ranker := NewRanker(prober, details, nil, 30)

	cands, _ := ranker.Rank(universe("A"), cutoff, 20)

	if len(cands) != 1 {
		t.Fatalf("expected candidate to survive detail failure, got %d", len(cands))
	}
	if cands[0].Details.ForeignRate != "" {
		t.Errorf("expected empty details, got %+v", cands[0].Details)
	}
}

func TestRankDetailsOnlyForSurvivors(t *testing.T) {
	prober := &fakeProber{counts: map[string]int{"A": 5, "B": 30}}
	details := &fakeDetails{}
	ranker := NewRanker(prober, details, nil, 30)

	cands, _ := ranker.Rank(universe("A", "B"), cutoff, 20)

	if details.calls != 1 {
		t.Errorf("expected 1 detail lookup (survivors only), got %d", details.calls)
	}
	if len(cands) != 1 || cands[0].Details.PrevClose != 70000 {
		t.Errorf("expected enriched survivor, got %+v", cands)
	}
}

func TestTopPostsByViews(t *testing.T) {
	posts := []board.Post{
		{Title: "a", Views: 10},
		{Title: "b", Views: 500},
		{Title: "c", Views: 500},
		{Title: "d", Views: 90},
	}
	idx := topPostsByViews(posts, 3)
	if len(idx) != 3 {
		t.Fatalf("expected 3 indexes, got %d", len(idx))
	}
	// Ties keep input order: b before c.
	if idx[0] != 1 || idx[1] != 2 || idx[2] != 3 {
		t.Errorf("unexpected order: %v", idx)
	}
}
