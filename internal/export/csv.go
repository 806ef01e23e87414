// Package export writes the per-cycle CSV artifact referenced from the
// snapshot log.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var header = []string{
	"시장구분", "종목코드", "종목명", "현재가", "거래량", "현재_외국인비중",
	"어제_종가", "어제_외국인비중", "등락률", "당일_게시글수", "게시물_요약",
	"감정분석", "Top_Keyword", "연속_등록",
}

// Row is one CSV line in output column order.
type Row struct {
	Market          string
	Code            string
	Name            string
	Price           int
	Volume          int
	ForeignRate     string
	PrevClose       int
	PrevForeignRate string
	ChangeRate      string
	PostCount       int
	PostsSummary    string
	Sentiment       string
	TopKeywords     []string
	IsConsecutive   bool
}

// WriteCycle writes the cycle's rows to a timestamped CSV under dir and
// returns the file path. An empty row set still produces a file with a
// header; an empty cycle is a valid, reportable outcome.
func WriteCycle(dir string, cycleTime time.Time, rows []Row) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("trending_%s.csv", cycleTime.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	// UTF-8 BOM so spreadsheet apps detect the Korean headers.
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("writing BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Market,
			r.Code,
			r.Name,
			strconv.Itoa(r.Price),
			strconv.Itoa(r.Volume),
			r.ForeignRate,
			strconv.Itoa(r.PrevClose),
			r.PrevForeignRate,
			r.ChangeRate,
			strconv.Itoa(r.PostCount),
			r.PostsSummary,
			r.Sentiment,
			strings.Join(r.TopKeywords, ", "),
			strconv.FormatBool(r.IsConsecutive),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing row %s: %w", r.Code, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export: %w", err)
	}
	return path, nil
}
