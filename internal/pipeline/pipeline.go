// Package pipeline runs one full cycle: universe, board probes,
// history correlation, report build, persistence, notification.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/hyunwoolee/trendboard/internal/board"
	"github.com/hyunwoolee/trendboard/internal/briefing"
	"github.com/hyunwoolee/trendboard/internal/config"
	"github.com/hyunwoolee/trendboard/internal/database"
	"github.com/hyunwoolee/trendboard/internal/export"
	"github.com/hyunwoolee/trendboard/internal/history"
	"github.com/hyunwoolee/trendboard/internal/naver"
	"github.com/hyunwoolee/trendboard/internal/notify"
	"github.com/hyunwoolee/trendboard/internal/rank"
	"github.com/hyunwoolee/trendboard/internal/report"
	"github.com/hyunwoolee/trendboard/internal/threshold"
)

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full cycle run.
type Result struct {
	CycleTS string
	Steps   []StepResult
	Records []report.Record
}

// Pipeline orchestrates the seven-step trend cycle.
type Pipeline struct {
	cfg      *config.Config
	db       *database.DB
	client   *naver.Client
	notifier *notify.Notifier
	loc      *time.Location
	now      func() time.Time
}

// New creates a pipeline. The market clock follows the configured
// timezone; an unknown zone falls back to UTC.
func New(cfg *config.Config, db *database.DB) *Pipeline {
	loc, err := time.LoadLocation(cfg.Collector.Timezone)
	if err != nil {
		log.Printf("unknown timezone %q, using UTC", cfg.Collector.Timezone)
		loc = time.UTC
	}

	return &Pipeline{
		cfg:      cfg,
		db:       db,
		client:   naver.NewClient(time.Duration(cfg.Collector.TimeoutSec) * time.Second),
		notifier: notify.New(cfg.Telegram),
		loc:      loc,
		now:      time.Now,
	}
}

// Run executes one full cycle. No step failure is fatal: the worst case
// is an empty qualifying set, which is still persisted and reported.
func (p *Pipeline) Run() *Result {
	now := p.now().In(p.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), p.cfg.Collector.CutoffHour, 0, 0, 0, p.loc)
	minPosts := threshold.NewPolicy(p.cfg.Threshold).ThresholdFor(now.Hour())

	r := &Result{CycleTS: database.FormatCycle(now)}
	log.Printf("cycle %s: cutoff %s, threshold %d posts", r.CycleTS, cutoff.Format("15:04"), minPosts)

	// Step 1: Universe
	stocks, step := p.runUniverse()
	r.Steps = append(r.Steps, step)

	// Step 2: Probe boards and rank
	candidates, step := p.runRank(stocks, cutoff, minPosts)
	r.Steps = append(r.Steps, step)

	// Step 3: History correlation
	step = p.runHistory(candidates, now)
	r.Steps = append(r.Steps, step)

	// Step 4: Build report
	log.Println("Step 4/7: Building trend report...")
	records := report.NewBuilder(p.cfg.Lexicon).Build(candidates)
	r.Records = records
	r.Steps = append(r.Steps, StepResult{
		Name:    "Report",
		Summary: fmt.Sprintf("Built %d records", len(records)),
	})

	// Step 5: Briefing headlines
	log.Println("Step 5/7: Collecting briefing headlines...")
	headlines := briefing.NewCollector(p.cfg.Briefing.Feeds).Headlines(now)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Briefing",
		Summary: fmt.Sprintf("Collected %d headlines", len(headlines)),
	})

	// Steps 6 and 7: Persist, then notify
	meta := report.Meta{CycleTS: r.CycleTS, Threshold: minPosts}
	step = p.runPersist(now, meta, records, headlines)
	r.Steps = append(r.Steps, step)

	step = p.runNotify(meta, records, headlines)
	r.Steps = append(r.Steps, step)

	return r
}

// DryRun shows what a cycle would do without any network or writes.
func (p *Pipeline) DryRun() *Result {
	now := p.now().In(p.loc)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), p.cfg.Collector.CutoffHour, 0, 0, 0, p.loc)
	minPosts := threshold.NewPolicy(p.cfg.Threshold).ThresholdFor(now.Hour())

	r := &Result{CycleTS: database.FormatCycle(now)}
	r.Steps = append(r.Steps, StepResult{
		Name: "Universe",
		Summary: fmt.Sprintf("[dry-run] would fetch volume-top for %v (limit %d, probe cap %d)",
			p.cfg.Markets, p.cfg.Universe.Limit, p.cfg.Universe.ProbeCap),
	})
	r.Steps = append(r.Steps, StepResult{
		Name: "Rank",
		Summary: fmt.Sprintf("[dry-run] cutoff %s, threshold %d posts, max %d pages / %d posts per board",
			cutoff.Format("2006-01-02 15:04"), minPosts, p.cfg.Collector.MaxPages, p.cfg.Collector.MaxPosts),
	})

	prior, _ := p.db.LatestSnapshotBefore(now.Format("2006-01-02"))
	if prior != nil {
		r.Steps = append(r.Steps, StepResult{
			Name:    "History",
			Summary: fmt.Sprintf("[dry-run] would compare against snapshot %s (%d codes)", prior.CycleTS, len(prior.Codes)),
		})
	} else {
		r.Steps = append(r.Steps, StepResult{
			Name:    "History",
			Summary: "[dry-run] no prior snapshot; all candidates would be new",
		})
	}
	return r
}

func (p *Pipeline) runUniverse() ([]naver.Stock, StepResult) {
	log.Println("Step 1/7: Fetching trending universe...")

	var all []naver.Stock
	perMarket := make(map[string]int)
	for _, market := range p.cfg.Markets {
		stocks, err := p.client.TopVolume(market, p.cfg.Universe.Limit, p.cfg.Universe.ExcludeKeywords)
		if err != nil {
			log.Printf("universe %s: %v", market, err)
			continue
		}
		all = append(all, stocks...)
		perMarket[market] = len(stocks)
	}

	summary := fmt.Sprintf("Found %d stocks", len(all))
	for _, market := range p.cfg.Markets {
		summary += fmt.Sprintf(" [%s: %d]", market, perMarket[market])
	}
	return all, StepResult{Name: "Universe", Summary: summary}
}

func (p *Pipeline) runRank(stocks []naver.Stock, cutoff time.Time, minPosts int) ([]*rank.Candidate, StepResult) {
	log.Println("Step 2/7: Probing discussion boards...")

	source := naver.NewBoardSource(p.client, p.loc)
	collector := board.NewCollector(source, p.cfg.Collector.MaxPages, p.cfg.Collector.MaxPosts,
		time.Duration(p.cfg.Collector.PageDelayMs)*time.Millisecond)
	ranker := rank.NewRanker(collector, p.client, p.client, p.cfg.Universe.ProbeCap)

	// Probe market by market so the per-cycle cap applies per market,
	// matching the universe ordering.
	var candidates []*rank.Candidate
	total := &rank.Result{}
	for _, market := range p.cfg.Markets {
		var subset []naver.Stock
		for _, s := range stocks {
			if s.Market == market {
				subset = append(subset, s)
			}
		}
		cands, res := ranker.Rank(subset, cutoff, minPosts)
		candidates = append(candidates, cands...)
		total.Probed += res.Probed
		total.Qualified += res.Qualified
		total.Rejected += res.Rejected
		total.Truncated += res.Truncated
	}

	return candidates, StepResult{
		Name: "Rank",
		Summary: fmt.Sprintf("Probed %d, %d qualified, %d rejected (%d truncated windows)",
			total.Probed, total.Qualified, total.Rejected, total.Truncated),
	}
}

func (p *Pipeline) runHistory(candidates []*rank.Candidate, now time.Time) StepResult {
	log.Println("Step 3/7: Correlating with prior cycles...")
	history.NewCorrelator(p.db).MarkConsecutive(candidates, now.Format("2006-01-02"))

	consecutive := 0
	for _, c := range candidates {
		if c.IsConsecutive {
			consecutive++
		}
	}
	return StepResult{
		Name:    "History",
		Summary: fmt.Sprintf("%d of %d candidates consecutive", consecutive, len(candidates)),
	}
}

func (p *Pipeline) runPersist(now time.Time, meta report.Meta, records []report.Record, headlines []briefing.Headline) StepResult {
	log.Println("Step 6/7: Persisting cycle...")

	var fileRef *string
	path, err := export.WriteCycle(p.cfg.GetDataDir(), now, exportRows(records))
	if err != nil {
		log.Printf("csv export: %v", err)
	} else {
		fileRef = &path
	}

	if err := p.db.InsertRecords(meta.CycleTS, reportRows(meta.CycleTS, records)); err != nil {
		return StepResult{Name: "Persist", Err: fmt.Errorf("inserting records: %w", err)}
	}
	if _, err := p.db.InsertDigest(meta.CycleTS, report.Markdown(meta, records, headlines), len(records)); err != nil {
		return StepResult{Name: "Persist", Err: fmt.Errorf("inserting digest: %w", err)}
	}

	codes := make([]string, len(records))
	for i, r := range records {
		codes[i] = r.Code
	}
	if _, err := p.db.AppendSnapshot(meta.CycleTS, codes, fileRef); err != nil {
		return StepResult{Name: "Persist", Err: fmt.Errorf("appending snapshot: %w", err)}
	}

	summary := fmt.Sprintf("Saved %d records, snapshot appended", len(records))
	if fileRef != nil {
		summary += fmt.Sprintf(", CSV %s", *fileRef)
	}
	return StepResult{Name: "Persist", Summary: summary}
}

func (p *Pipeline) runNotify(meta report.Meta, records []report.Record, headlines []briefing.Headline) StepResult {
	log.Println("Step 7/7: Delivering notification...")

	if p.notifier == nil {
		return StepResult{Name: "Notify", Summary: "Telegram disabled or unconfigured"}
	}
	// Delivery failures are swallowed: the cycle is already persisted.
	if err := p.notifier.Deliver(meta, records, headlines); err != nil {
		log.Printf("notification: %v", err)
		return StepResult{Name: "Notify", Summary: fmt.Sprintf("Delivery failed: %v", err)}
	}
	return StepResult{Name: "Notify", Summary: "Report delivered"}
}

func exportRows(records []report.Record) []export.Row {
	rows := make([]export.Row, len(records))
	for i, r := range records {
		rows[i] = export.Row{
			Market:          r.Market,
			Code:            r.Code,
			Name:            r.Name,
			Price:           r.Price,
			Volume:          r.Volume,
			ForeignRate:     r.ForeignRate,
			PrevClose:       r.PrevClose,
			PrevForeignRate: r.PrevForeignRate,
			ChangeRate:      r.ChangeRate,
			PostCount:       r.PostCount,
			PostsSummary:    r.PostsSummary,
			Sentiment:       r.Sentiment,
			TopKeywords:     r.TopKeywords,
			IsConsecutive:   r.IsConsecutive,
		}
	}
	return rows
}

func reportRows(cycleTS string, records []report.Record) []database.ReportRow {
	rows := make([]database.ReportRow, len(records))
	for i, r := range records {
		keywords := ""
		if len(r.TopKeywords) > 0 {
			keywords = r.TopKeywords[0]
			for _, k := range r.TopKeywords[1:] {
				keywords += ", " + k
			}
		}
		rows[i] = database.ReportRow{
			CycleTS:         cycleTS,
			Market:          r.Market,
			Code:            r.Code,
			Name:            r.Name,
			Price:           r.Price,
			ForeignRate:     optional(r.ForeignRate),
			PrevForeignRate: optional(r.PrevForeignRate),
			PrevClose:       r.PrevClose,
			ChangeRate:      optional(r.ChangeRate),
			PostCount:       r.PostCount,
			PostsSummary:    optional(r.PostsSummary),
			Sentiment:       optional(r.Sentiment),
			TopKeywords:     optional(keywords),
			IsConsecutive:   r.IsConsecutive,
		}
	}
	return rows
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
