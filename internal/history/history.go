// Package history correlates the current cycle's qualifying set with
// the snapshot log to flag securities trending across consecutive
// trading days.
package history

import (
	"log"

	"github.com/hyunwoolee/trendboard/internal/database"
	"github.com/hyunwoolee/trendboard/internal/rank"
)

// Correlator marks candidates that also qualified in the most recent
// prior trading day's final cycle.
type Correlator struct {
	db *database.DB
}

// NewCorrelator creates a correlator over the snapshot log.
func NewCorrelator(db *database.DB) *Correlator {
	return &Correlator{db: db}
}

// MarkConsecutive sets IsConsecutive on each candidate. The comparison
// snapshot is the newest one dated strictly before today (YYYY-MM-DD);
// intra-day reruns are ignored. A missing or unreadable snapshot log
// means empty history: every candidate stays non-consecutive, and that
// is not an error.
func (c *Correlator) MarkConsecutive(candidates []*rank.Candidate, today string) {
	prior, err := c.db.LatestSnapshotBefore(today)
	if err != nil {
		log.Printf("snapshot lookup before %s: %v (treating history as empty)", today, err)
		return
	}
	if prior == nil {
		log.Printf("no snapshot before %s; all candidates are new", today)
		return
	}

	marked := 0
	for _, cand := range candidates {
		if prior.Contains(cand.Stock.Code) {
			cand.IsConsecutive = true
			marked++
		}
	}
	log.Printf("history: compared against %s, %d of %d consecutive",
		prior.CycleTS, marked, len(candidates))
}
