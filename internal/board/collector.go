package board

import (
	"log"
	"time"
)

// Collector walks board pages newest-first and accumulates posts until
// the time cutoff is crossed or a hard cap is reached. The board is
// assumed monotonically time-ordered, so the first post older than the
// cutoff terminates the whole scan.
type Collector struct {
	source   PageSource
	maxPages int
	maxPosts int
	delay    time.Duration
	sleep    func(time.Duration)
}

// NewCollector creates a collector over the given page source.
func NewCollector(source PageSource, maxPages, maxPosts int, delay time.Duration) *Collector {
	if maxPages <= 0 {
		maxPages = 20
	}
	if maxPosts <= 0 {
		maxPosts = 800
	}
	return &Collector{
		source:   source,
		maxPages: maxPages,
		maxPosts: maxPosts,
		delay:    delay,
		sleep:    time.Sleep,
	}
}

// Collect gathers all posts for securityID posted at or after cutoff.
// A transient fetch error abandons collection for this security and
// keeps whatever was already collected; a cutoff in the future simply
// yields an empty window.
func (c *Collector) Collect(securityID string, cutoff time.Time) ActivityWindow {
	win := ActivityWindow{SecurityID: securityID, Cutoff: cutoff}

	for page := 1; page <= c.maxPages; page++ {
		if page > 1 && c.delay > 0 {
			c.sleep(c.delay)
		}

		posts, err := c.source.FetchPage(securityID, page)
		if err != nil {
			log.Printf("board %s page %d: %v (keeping %d collected posts)",
				securityID, page, err, len(win.Posts))
			return win
		}
		win.PagesFetched++

		// Zero parseable posts: empty board or structure mismatch.
		if len(posts) == 0 {
			return win
		}

		for _, p := range posts {
			if p.PostedAt.Before(cutoff) {
				return win
			}
			win.Posts = append(win.Posts, p)
			if len(win.Posts) >= c.maxPosts {
				win.Truncated = true
				return win
			}
		}
	}

	// Ran out of page budget with the cutoff still unreached.
	win.Truncated = true
	return win
}
