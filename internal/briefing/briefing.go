// Package briefing collects same-day finance headlines from configured
// RSS feeds for the digest header.
package briefing

import (
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hyunwoolee/trendboard/internal/config"
)

const maxPerFeed = 5

// Headline is one feed item kept for the briefing.
type Headline struct {
	Title  string
	Source string
	URL    string
}

// Collector parses the configured feeds.
type Collector struct {
	feeds []config.Feed
}

// NewCollector creates a headline collector. An empty feed list is
// valid and yields no headlines.
func NewCollector(feeds []config.Feed) *Collector {
	return &Collector{feeds: feeds}
}

// Headlines returns today's items across all feeds, a few per feed.
// Feed failures are logged and skipped; the briefing is best-effort.
func (c *Collector) Headlines(now time.Time) []Headline {
	if len(c.feeds) == 0 {
		return nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	parser := gofeed.NewParser()
	var all []Headline

	for _, fc := range c.feeds {
		feed, err := parser.ParseURL(fc.URL)
		if err != nil {
			log.Printf("briefing feed %s: %v", fc.URL, err)
			continue
		}

		name := fc.Name
		if name == "" {
			name = feed.Title
		}

		kept := 0
		for _, item := range feed.Items {
			if kept >= maxPerFeed {
				break
			}
			title := strings.TrimSpace(item.Title)
			if title == "" || !publishedOn(item, dayStart) {
				continue
			}
			all = append(all, Headline{Title: title, Source: name, URL: item.Link})
			kept++
		}
		log.Printf("briefing: %d headlines from %s", kept, name)
	}

	return all
}

// publishedOn reports whether the item was published on or after
// dayStart. Items without a parsed date get the benefit of the doubt.
func publishedOn(item *gofeed.Item, dayStart time.Time) bool {
	ts := item.PublishedParsed
	if ts == nil {
		ts = item.UpdatedParsed
	}
	if ts == nil {
		return true
	}
	return !ts.Before(dayStart)
}
