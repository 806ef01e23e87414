package report

import (
	"fmt"
	"strings"

	"github.com/hyunwoolee/trendboard/internal/briefing"
)

// Meta describes the cycle a digest belongs to.
type Meta struct {
	CycleTS   string
	Threshold int
}

// Markdown renders the cycle digest persisted alongside the report and
// served by the viewer.
func Markdown(meta Meta, records []Record, headlines []briefing.Headline) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# 토론실 트렌드 %s\n\n", meta.CycleTS)
	fmt.Fprintf(&sb, "기준: 당일 게시글 %d건 이상\n\n", meta.Threshold)

	if len(headlines) > 0 {
		sb.WriteString("## 시장 브리핑\n\n")
		for _, h := range headlines {
			fmt.Fprintf(&sb, "- %s (%s)\n", h.Title, h.Source)
		}
		sb.WriteString("\n")
	}

	if len(records) == 0 {
		sb.WriteString("조건에 맞는 급상승 종목이 없습니다.\n")
		return sb.String()
	}

	sb.WriteString("## 종목\n\n")
	for i, r := range records {
		marker := ""
		if r.IsConsecutive {
			marker = " (연속)"
		}
		fmt.Fprintf(&sb, "### %d. %s [%s]%s\n\n", i+1, r.Name, r.Market, marker)
		fmt.Fprintf(&sb, "- 게시글: %d건, 감정: %s\n", r.PostCount, r.Sentiment)
		fmt.Fprintf(&sb, "- 현재가: %s, 등락률: %s", formatPrice(r.Price), orDash(r.ChangeRate))
		if r.ForeignRate != "" {
			fmt.Fprintf(&sb, ", 외국인: %s", r.ForeignRate)
			if r.PrevForeignRate != "" {
				fmt.Fprintf(&sb, " (전일 %s)", r.PrevForeignRate)
			}
		}
		sb.WriteString("\n")
		if len(r.TopKeywords) > 0 {
			fmt.Fprintf(&sb, "- 키워드: %s\n", strings.Join(r.TopKeywords, ", "))
		}
		if r.PostsSummary != "" {
			fmt.Fprintf(&sb, "- 주요 글: %s\n", r.PostsSummary)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatPrice(price int) string {
	if price <= 0 {
		return "-"
	}
	s := fmt.Sprintf("%d", price)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
