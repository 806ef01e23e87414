// Package notify delivers cycle reports to Telegram. Delivery is
// best-effort: failures are logged by the caller and never block
// persistence.
package notify

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hyunwoolee/trendboard/internal/briefing"
	"github.com/hyunwoolee/trendboard/internal/config"
	"github.com/hyunwoolee/trendboard/internal/report"
)

const (
	apiBase         = "https://api.telegram.org"
	perMarketLimit  = 10
	betweenMessages = time.Second
)

// Notifier posts HTML messages to a Telegram chat.
type Notifier struct {
	http         *resty.Client
	token        string
	chatID       string
	dashboardURL string
	sleep        func(time.Duration)
}

// New creates a notifier from config. Credentials come from the env
// vars the config names; returns nil (disabled) when they are unset.
func New(cfg config.Telegram) *Notifier {
	if !cfg.Enabled {
		return nil
	}
	token := os.Getenv(cfg.TokenEnv)
	chatID := os.Getenv(cfg.ChatIDEnv)
	if token == "" || chatID == "" {
		return nil
	}

	c := resty.New()
	c.SetTimeout(10 * time.Second)
	return &Notifier{
		http:         c,
		token:        token,
		chatID:       chatID,
		dashboardURL: cfg.DashboardURL,
		sleep:        time.Sleep,
	}
}

// Deliver sends the cycle report: dashboard link first, then one
// message per market with its top names, or a status message for an
// empty cycle. The first failed send aborts the remainder.
func (n *Notifier) Deliver(meta report.Meta, records []report.Record, headlines []briefing.Headline) error {
	if n.dashboardURL != "" {
		if err := n.send(fmt.Sprintf("📊 <b>Dashboard</b>\n%s", n.dashboardURL)); err != nil {
			return err
		}
		n.sleep(betweenMessages)
	}

	if len(headlines) > 0 {
		if err := n.send(headlineMessage(headlines)); err != nil {
			return err
		}
		n.sleep(betweenMessages)
	}

	if len(records) == 0 {
		return n.send(emptyMessage(meta))
	}

	sent := 0
	for _, market := range marketsIn(records) {
		if err := n.send(marketMessage(market, records)); err != nil {
			return err
		}
		sent++
		if sent > 0 {
			n.sleep(betweenMessages)
		}
	}
	return nil
}

func (n *Notifier) send(text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, n.token)
	resp, err := n.http.R().
		SetFormData(map[string]string{
			"chat_id":    n.chatID,
			"text":       text,
			"parse_mode": "HTML",
		}).
		Post(url)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("telegram send: HTTP %d", resp.StatusCode())
	}
	return nil
}

// marketsIn returns the distinct markets in record order.
func marketsIn(records []report.Record) []string {
	var markets []string
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, ok := seen[r.Market]; ok {
			continue
		}
		seen[r.Market] = struct{}{}
		markets = append(markets, r.Market)
	}
	return markets
}

func marketMessage(market string, records []report.Record) string {
	var sb strings.Builder
	var lines int
	for _, r := range records {
		if r.Market != market || lines >= perMarketLimit {
			continue
		}
		if lines == 0 {
			fmt.Fprintf(&sb, "📈 [%s]\n", market)
		}
		marker := ""
		if r.IsConsecutive {
			marker = " 🔁"
		}
		fmt.Fprintf(&sb, "🔥 <b>%s</b>: %d글 | %s%s\n", r.Name, r.PostCount, orDash(r.ChangeRate), marker)
		lines++
	}
	return sb.String()
}

func headlineMessage(headlines []briefing.Headline) string {
	var sb strings.Builder
	sb.WriteString("📑 <b>시장 브리핑</b>\n")
	for i, h := range headlines {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&sb, "• %s (%s)\n", h.Title, h.Source)
	}
	return sb.String()
}

func emptyMessage(meta report.Meta) string {
	return fmt.Sprintf("📉 [Report] %s\n기준: %d글 이상\n조건에 맞는 급상승 종목이 없습니다.",
		meta.CycleTS, meta.Threshold)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
