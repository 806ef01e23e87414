package naver

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StaticDetails fetches foreign-ownership ratios (today and yesterday)
// and yesterday's close from the investor-trend page. Failures yield an
// empty Details; enrichment never aborts a cycle.
func (c *Client) StaticDetails(code string) (Details, error) {
	url := fmt.Sprintf("%s/item/frgn.naver?code=%s", baseURL, code)
	doc, err := c.document(url, "")
	if err != nil {
		return Details{}, err
	}
	return parseDetails(doc), nil
}

func parseDetails(doc *goquery.Document) Details {
	var d Details

	// Find the table carrying the foreign-ownership history; its header
	// mentions both 외국인 and 보유율.
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		text := t.Text()
		if strings.Contains(text, "외국인") && strings.Contains(text, "보유율") {
			table = t
			return false
		}
		return true
	})
	if table == nil {
		return d
	}

	// Header and spacer rows have few cells; data rows have 6+.
	var dataRows []*goquery.Selection
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.Find("td").Length() > 5 {
			dataRows = append(dataRows, row)
		}
	})

	if len(dataRows) > 0 {
		cols := dataRows[0].Find("td")
		d.ForeignRate = strings.TrimSpace(cols.Eq(cols.Length() - 1).Text())
	}
	if len(dataRows) > 1 {
		cols := dataRows[1].Find("td")
		d.PrevForeignRate = strings.TrimSpace(cols.Eq(cols.Length() - 1).Text())
		d.PrevClose = parseCount(cols.Eq(1).Text())
	}

	return d
}
