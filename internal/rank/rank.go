// Package rank probes the trending universe against the discussion
// boards and keeps the securities whose same-day activity clears the
// cycle threshold.
package rank

import (
	"log"
	"sort"
	"time"

	"github.com/hyunwoolee/trendboard/internal/board"
	"github.com/hyunwoolee/trendboard/internal/naver"
)

// bodyFetchLimit bounds lazy body fetches per qualifying candidate.
const bodyFetchLimit = 3

// Candidate is a security that cleared the threshold, with its resolved
// activity window and enrichment.
type Candidate struct {
	Stock         naver.Stock
	Window        board.ActivityWindow
	Details       naver.Details
	IsConsecutive bool
}

// PostCount returns the number of same-day posts collected.
func (c *Candidate) PostCount() int {
	return c.Window.PostCount()
}

// Prober collects the activity window for one security.
type Prober interface {
	Collect(securityID string, cutoff time.Time) board.ActivityWindow
}

// DetailFetcher resolves static per-stock enrichment.
type DetailFetcher interface {
	StaticDetails(code string) (naver.Details, error)
}

// BodyFetcher fetches the readable text of a single post.
type BodyFetcher interface {
	FetchBody(permalink string) (string, error)
}

// Result summarizes one ranking pass.
type Result struct {
	Probed    int
	Qualified int
	Rejected  int
	Truncated int
}

// Ranker drives the per-candidate probes. Securities are probed one at
// a time in universe order; a probe failure excludes that security only.
type Ranker struct {
	prober   Prober
	details  DetailFetcher
	bodies   BodyFetcher
	probeCap int
}

// NewRanker creates a ranker. details and bodies may be nil to skip
// enrichment (used by tests and dry runs).
func NewRanker(prober Prober, details DetailFetcher, bodies BodyFetcher, probeCap int) *Ranker {
	if probeCap <= 0 {
		probeCap = 30
	}
	return &Ranker{prober: prober, details: details, bodies: bodies, probeCap: probeCap}
}

// Rank probes up to probeCap securities from the universe and returns
// the candidates whose post count reaches minPosts, in universe order.
// Detail lookups happen only for survivors; their failures yield empty
// details and never abort the batch.
func (r *Ranker) Rank(stocks []naver.Stock, cutoff time.Time, minPosts int) ([]*Candidate, *Result) {
	result := &Result{}
	var candidates []*Candidate

	for i, stock := range stocks {
		if i >= r.probeCap {
			break
		}
		result.Probed++

		win := r.prober.Collect(stock.Code, cutoff)
		if win.Truncated {
			result.Truncated++
		}
		if win.PostCount() < minPosts {
			result.Rejected++
			continue
		}

		cand := &Candidate{Stock: stock, Window: win}
		r.enrich(cand)
		candidates = append(candidates, cand)
		result.Qualified++
		log.Printf("[KEEP] %s (%s): %d posts", stock.Name, stock.Code, win.PostCount())
	}

	return candidates, result
}

func (r *Ranker) enrich(cand *Candidate) {
	if r.details != nil {
		details, err := r.details.StaticDetails(cand.Stock.Code)
		if err != nil {
			log.Printf("details %s: %v", cand.Stock.Code, err)
		} else {
			cand.Details = details
		}
	}

	if r.bodies == nil {
		return
	}
	for _, idx := range topPostsByViews(cand.Window.Posts, bodyFetchLimit) {
		post := &cand.Window.Posts[idx]
		if post.Permalink == "" {
			continue
		}
		body, err := r.bodies.FetchBody(post.Permalink)
		if err != nil {
			log.Printf("post body %s: %v", post.Permalink, err)
			continue
		}
		post.Body = body
	}
}

// topPostsByViews returns the indexes of the n most-viewed posts,
// stable for ties.
func topPostsByViews(posts []board.Post, n int) []int {
	idx := make([]int, len(posts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return posts[idx[a]].Views > posts[idx[b]].Views
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}
