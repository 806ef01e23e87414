package board

import "time"

// Post is a single discussion-board entry. Immutable once collected.
type Post struct {
	Title     string
	PostedAt  time.Time
	Views     int
	Likes     int
	Dislikes  int
	Permalink string
	Body      string // fetched lazily for a bounded subset
}

// ActivityWindow holds the posts collected for one security within one
// cycle. Posts are ordered as the board emits them: newest first. Every
// post satisfies PostedAt >= Cutoff.
type ActivityWindow struct {
	SecurityID   string
	Cutoff       time.Time
	Posts        []Post
	PagesFetched int
	Truncated    bool // hit a hard cap before reaching the cutoff
}

// PostCount returns the number of posts in the window.
func (w *ActivityWindow) PostCount() int {
	return len(w.Posts)
}

// Titles returns all post titles in window order.
func (w *ActivityWindow) Titles() []string {
	titles := make([]string, len(w.Posts))
	for i, p := range w.Posts {
		titles[i] = p.Title
	}
	return titles
}

// PageSource fetches one page of parsed board posts for a security.
// Implementations skip rows without a parseable timestamp; a page with
// zero parseable posts signals end of data rather than an error.
type PageSource interface {
	FetchPage(securityID string, page int) ([]Post, error)
}
