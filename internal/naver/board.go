package naver

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyunwoolee/trendboard/internal/board"
)

const postDateLayout = "2006.01.02 15:04"

// BoardSource serves parsed discussion-board pages for the collector.
// It implements board.PageSource.
type BoardSource struct {
	client *Client
	loc    *time.Location
}

// NewBoardSource creates a board page source. Post timestamps are
// interpreted in loc (the board shows market-local wall-clock times).
func NewBoardSource(client *Client, loc *time.Location) *BoardSource {
	if loc == nil {
		loc = time.UTC
	}
	return &BoardSource{client: client, loc: loc}
}

// FetchPage fetches one board page for a security, newest posts first.
// Rows without a parseable timestamp (notices, ads, headers) are
// skipped silently.
func (s *BoardSource) FetchPage(securityID string, page int) ([]board.Post, error) {
	boardURL := fmt.Sprintf("%s/item/board.naver?code=%s", baseURL, securityID)
	url := fmt.Sprintf("%s&page=%d", boardURL, page)

	doc, err := s.client.document(url, boardURL)
	if err != nil {
		return nil, err
	}
	return parseBoardPage(doc, s.loc), nil
}

// parseBoardPage extracts posts from a board page document.
// Board columns: date, title, author, views, likes, dislikes.
func parseBoardPage(doc *goquery.Document, loc *time.Location) []board.Post {
	var posts []board.Post

	doc.Find("table.type2 tr").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 6 {
			return
		}

		postedAt, err := time.ParseInLocation(postDateLayout, strings.TrimSpace(cols.Eq(0).Text()), loc)
		if err != nil {
			return // not a post row
		}

		titleLink := row.Find("td.title a").First()
		if titleLink.Length() == 0 {
			titleLink = cols.Eq(1).Find("a").First()
		}
		title := strings.TrimSpace(titleLink.Text())

		permalink := ""
		if href, ok := titleLink.Attr("href"); ok {
			permalink = absoluteURL(href)
		}

		posts = append(posts, board.Post{
			Title:     title,
			PostedAt:  postedAt,
			Views:     parseCount(cols.Eq(3).Text()),
			Likes:     parseCount(cols.Eq(4).Text()),
			Dislikes:  parseCount(cols.Eq(5).Text()),
			Permalink: permalink,
		})
	})

	return posts
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}
