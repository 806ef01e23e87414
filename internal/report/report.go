// Package report turns ranked candidates into the ordered trend report:
// lexicon sentiment, keyword summaries, post digests, and the final
// post-count ordering.
package report

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hyunwoolee/trendboard/internal/board"
	"github.com/hyunwoolee/trendboard/internal/config"
	"github.com/hyunwoolee/trendboard/internal/rank"
)

const (
	topKeywordCount  = 3
	summaryPostCount = 3
	summarySeparator = " / "
)

// Record is one line of the final report, in output field order.
type Record struct {
	Market          string
	Code            string
	Name            string
	Price           int
	Volume          int
	ForeignRate     string
	PrevForeignRate string
	PrevClose       int
	ChangeRate      string
	PostCount       int
	PostsSummary    string
	Sentiment       string
	TopKeywords     []string
	IsConsecutive   bool
}

// Builder computes per-candidate summaries from the configured lexicons.
type Builder struct {
	positive  []string
	negative  []string
	stopwords map[string]struct{}
}

// NewBuilder creates a report builder from the sentiment lexicon config.
func NewBuilder(lex config.Lexicon) *Builder {
	stop := make(map[string]struct{}, len(lex.Stopwords))
	for _, w := range lex.Stopwords {
		stop[w] = struct{}{}
	}
	return &Builder{positive: lex.Positive, negative: lex.Negative, stopwords: stop}
}

// Build produces the ordered report. Primary order is post count
// descending; ties keep the candidates' universe order.
func (b *Builder) Build(candidates []*rank.Candidate) []Record {
	records := make([]Record, 0, len(candidates))
	for _, cand := range candidates {
		titles := cand.Window.Titles()
		records = append(records, Record{
			Market:          cand.Stock.Market,
			Code:            cand.Stock.Code,
			Name:            cand.Stock.Name,
			Price:           cand.Stock.Price,
			Volume:          cand.Stock.Volume,
			ForeignRate:     cand.Details.ForeignRate,
			PrevForeignRate: cand.Details.PrevForeignRate,
			PrevClose:       pickPrevClose(cand),
			ChangeRate:      cand.Stock.ChangeRate,
			PostCount:       cand.PostCount(),
			PostsSummary:    b.PostsSummary(cand.Window.Posts),
			Sentiment:       b.Sentiment(titles),
			TopKeywords:     b.TopKeywords(titles),
			IsConsecutive:   cand.IsConsecutive,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PostCount > records[j].PostCount
	})
	return records
}

// pickPrevClose prefers the detail page's close over the one derived
// from the listing's change rate.
func pickPrevClose(cand *rank.Candidate) int {
	if cand.Details.PrevClose > 0 {
		return cand.Details.PrevClose
	}
	return cand.Stock.PrevClose
}

// Sentiment classifies titles against the lexicons. A title counts once
// per polarity when it contains any lexicon word. Labels carry the
// rounded share of the winning polarity.
func (b *Builder) Sentiment(titles []string) string {
	pos, neg := 0, 0
	for _, title := range titles {
		if containsAny(title, b.positive) {
			pos++
		}
		if containsAny(title, b.negative) {
			neg++
		}
	}

	total := pos + neg
	switch {
	case total == 0:
		return "Neutral"
	case pos > neg:
		return "Positive (" + strconv.Itoa(percent(pos, total)) + "%)"
	case neg > pos:
		return "Negative (" + strconv.Itoa(percent(neg, total)) + "%)"
	default:
		return "Mixed"
	}
}

// TopKeywords returns the 3 most frequent multi-character tokens across
// titles, ties broken by first appearance.
func (b *Builder) TopKeywords(titles []string) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, title := range titles {
		for _, word := range strings.Fields(title) {
			if utf8.RuneCountInString(word) <= 1 {
				continue
			}
			if _, stop := b.stopwords[word]; stop {
				continue
			}
			if _, seen := counts[word]; !seen {
				firstSeen[word] = order
				order++
			}
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > topKeywordCount {
		words = words[:topKeywordCount]
	}
	return words
}

// PostsSummary joins the titles of the 3 most-viewed posts. Posts
// without a parseable view count rank as zero.
func (b *Builder) PostsSummary(posts []board.Post) string {
	if len(posts) == 0 {
		return ""
	}

	idx := make([]int, len(posts))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, c int) bool {
		return posts[idx[a]].Views > posts[idx[c]].Views
	})

	n := summaryPostCount
	if len(idx) < n {
		n = len(idx)
	}
	titles := make([]string, 0, n)
	for _, i := range idx[:n] {
		if t := strings.TrimSpace(posts[i].Title); t != "" {
			titles = append(titles, t)
		}
	}
	return strings.Join(titles, summarySeparator)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
