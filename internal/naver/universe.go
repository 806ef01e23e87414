package naver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TopVolume returns the volume-top listing for a market, capped at
// limit rows. ETF/ETN names matching an exclude keyword are skipped.
func (c *Client) TopVolume(market string, limit int, exclude []string) ([]Stock, error) {
	sosok := "0"
	if strings.EqualFold(market, "KOSDAQ") {
		sosok = "1"
	}
	url := fmt.Sprintf("%s/sise/sise_quant.naver?sosok=%s", baseURL, sosok)

	doc, err := c.document(url, "")
	if err != nil {
		return nil, err
	}
	return parseTopVolume(doc, market, limit, exclude), nil
}

func parseTopVolume(doc *goquery.Document, market string, limit int, exclude []string) []Stock {
	var stocks []Stock

	doc.Find("table.type_2 tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cols := row.Find("td")
		if cols.Length() < 10 {
			return true
		}

		link := cols.Eq(1).Find("a").First()
		href, ok := link.Attr("href")
		if !ok || !strings.Contains(href, "code=") {
			return true
		}
		name := strings.TrimSpace(link.Text())
		if name == "" || isExcluded(name, exclude) {
			return true
		}
		code := href[strings.LastIndex(href, "code=")+len("code="):]

		price := parseCount(cols.Eq(2).Text())
		changeRate := strings.TrimSpace(cols.Eq(4).Text())

		stocks = append(stocks, Stock{
			Market:     market,
			Code:       code,
			Name:       name,
			Price:      price,
			PrevClose:  derivePrevClose(price, changeRate),
			ChangeRate: changeRate,
			Volume:     parseCount(cols.Eq(5).Text()),
		})
		return len(stocks) < limit
	})

	return stocks
}

func isExcluded(name string, exclude []string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range exclude {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// derivePrevClose back-computes yesterday's close from the change rate.
// The listing carries the change amount unsigned, so the rate is the
// reliable signal. Returns 0 when the rate is unusable.
func derivePrevClose(price int, changeRate string) int {
	rate, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(changeRate), "%"), 64)
	if err != nil || rate <= -100 {
		return 0
	}
	return int(float64(price) / (1 + rate/100))
}

// parseCount parses a comma-grouped numeric cell, returning 0 for
// anything unparseable.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
