// Package naver scrapes Naver Finance: the volume-top listing, per-stock
// foreign-ownership details, and the per-stock discussion board.
package naver

import (
	"bytes"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

const (
	baseURL   = "https://finance.naver.com"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Stock is one row of the volume-top listing.
type Stock struct {
	Market     string
	Code       string
	Name       string
	Price      int
	PrevClose  int
	ChangeRate string
	Volume     int
}

// Details holds per-stock enrichment from the investor-trend page.
// Zero values mean the lookup failed or the page lacked the field.
type Details struct {
	ForeignRate     string
	PrevForeignRate string
	PrevClose       int
}

// Client is a shared HTTP client for all Naver Finance pages.
type Client struct {
	http *resty.Client
}

// NewClient creates a client with a bounded timeout. Naver blocks
// requests without a browser User-Agent.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", userAgent)
	return &Client{http: c}
}

// document fetches a page and parses it into a goquery document.
// Naver Finance serves EUC-KR; bodies are transcoded before parsing.
func (c *Client) document(url, referer string) (*goquery.Document, error) {
	req := c.http.R()
	if referer != "" {
		req.SetHeader("Referer", referer)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode())
	}

	body := decodeKorean(resp.Body())
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// decodeKorean transcodes EUC-KR to UTF-8, leaving valid UTF-8 alone.
func decodeKorean(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	out, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), b)
	if err != nil {
		return b
	}
	return out
}
