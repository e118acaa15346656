package fetcher

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/indicator"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

const dateLayout = "2006-01-02"

// DefaultDays is the requested span when the caller supplies none.
const DefaultDays = 30

// GetDailyData runs the shared pipeline for one fetcher: date-range
// defaulting, raw acquisition, normalization, cleaning and indicator
// derivation. Any failure comes back as a *FetchError naming the source
// and the stock code, with the original cause preserved for errors.Is.
func GetDailyData(ctx context.Context, f Fetcher, code, startDate, endDate string, days int) ([]model.DailyBar, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if endDate == "" {
		endDate = time.Now().Format(dateLayout)
	}
	if startDate == "" {
		end, err := time.Parse(dateLayout, endDate)
		if err != nil {
			return nil, newFetchError(f.Name(), code, fmt.Errorf("bad end date %q: %w", endDate, err))
		}
		// Twice the requested span, so 20-day rolling windows have
		// warm-up history before the first reported row.
		startDate = end.AddDate(0, 0, -days*2).Format(dateLayout)
	}

	log.Infof("[%s] 获取 %s: %s ~ %s", f.Name(), code, startDate, endDate)

	bars, err := runPipeline(ctx, f, code, startDate, endDate)
	if err != nil {
		log.Errorf("[%s] 获取 %s 失败: %v", f.Name(), code, err)
		return nil, newFetchError(f.Name(), code, err)
	}

	log.Infof("[%s] %s 获取成功，共 %d 条", f.Name(), code, len(bars))
	return bars, nil
}

func runPipeline(ctx context.Context, f Fetcher, code, startDate, endDate string) ([]model.DailyBar, error) {
	raw, err := f.FetchRaw(ctx, code, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if raw == nil || raw.Len() == 0 {
		return nil, ErrEmptyData
	}

	records, err := f.Normalize(raw, code)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}

	bars, err := Clean(records)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	indicator.Apply(bars)
	return bars, nil
}

// Clean coerces record fields to their canonical types, drops rows
// missing close or volume, sorts ascending by date and collapses
// duplicate dates keeping the most recent occurrence. An unparseable
// date fails the whole call.
func Clean(records []Record) ([]model.DailyBar, error) {
	bars := make([]model.DailyBar, 0, len(records))
	for _, r := range records {
		date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", r.Date, err)
		}
		closeV := coerce(r.Close)
		volume := coerce(r.Volume)
		if math.IsNaN(closeV) || math.IsNaN(volume) {
			continue
		}
		bars = append(bars, model.DailyBar{
			Date:   date,
			Open:   coerce(r.Open),
			High:   coerce(r.High),
			Low:    coerce(r.Low),
			Close:  closeV,
			Volume: volume,
			Amount: coerce(r.Amount),
			PctChg: coerce(r.PctChg),
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for i, b := range bars {
		if i+1 < len(bars) && bars[i+1].Date.Equal(b.Date) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// coerce parses one numeric field; missing or unparseable values become NaN.
func coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
