package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

const (
	defaultKlineURL = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	defaultQuoteURL = "https://push2.eastmoney.com/api/qt/stock/get"
	defaultChipURL  = "https://push2ex.eastmoney.com/getStockChipDistribution"
)

// EastMoneyFetcher is the default data source, backed by the East Money
// push endpoints. Besides the daily kline history it exposes the two
// optional side lookups (realtime quote, chip distribution).
type EastMoneyFetcher struct {
	KlineURL string
	QuoteURL string
	ChipURL  string
	Client   *http.Client

	// Bounds for the polite pause before each network call, in seconds.
	SleepMin float64
	SleepMax float64
}

// NewEastMoneyFetcher creates the fetcher with optional proxy support.
func NewEastMoneyFetcher(proxyURL string) *EastMoneyFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastMoneyFetcher{
		KlineURL: defaultKlineURL,
		QuoteURL: defaultQuoteURL,
		ChipURL:  defaultChipURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		SleepMin: 1,
		SleepMax: 3,
	}
}

func (f *EastMoneyFetcher) Name() string { return "eastmoney" }

func (f *EastMoneyFetcher) Priority() int { return 1 }

// secid prefixes Shanghai codes with market 1, everything else 0.
func secid(code string) string {
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}

// compactDate turns 2024-01-02 into 20240102, the format the kline API expects.
func compactDate(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// emKlines is East Money's raw kline payload: one comma-joined string
// per trading day.
type emKlines struct {
	Code   string
	Name   string
	Klines []string
}

func (k *emKlines) Len() int { return len(k.Klines) }

type emKlineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastMoneyFetcher) FetchRaw(ctx context.Context, code, startDate, endDate string) (RawTable, error) {
	RandomSleep(f.SleepMin, f.SleepMax)

	q := url.Values{}
	q.Set("secid", secid(code))
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61")
	q.Set("klt", "101") // daily bars
	q.Set("fqt", "1")   // forward adjusted
	q.Set("beg", compactDate(startDate))
	q.Set("end", compactDate(endDate))

	var resp emKlineResponse
	if err := f.getJSON(ctx, f.KlineURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: empty kline payload", ErrSourceUnavailable)
	}
	return &emKlines{Code: resp.Data.Code, Name: resp.Data.Name, Klines: resp.Data.Klines}, nil
}

// Normalize maps the kline field order
// (date,open,close,high,low,volume,amount,amplitude,pct_chg,change,turnover)
// onto the canonical record shape.
func (f *EastMoneyFetcher) Normalize(raw RawTable, code string) ([]Record, error) {
	klines, ok := raw.(*emKlines)
	if !ok {
		return nil, fmt.Errorf("unexpected raw table type %T", raw)
	}
	records := make([]Record, 0, len(klines.Klines))
	for _, line := range klines.Klines {
		parts := strings.Split(line, ",")
		if len(parts) < 9 {
			return nil, fmt.Errorf("malformed kline %q for %s", line, code)
		}
		records = append(records, Record{
			Date:   parts[0],
			Open:   parts[1],
			Close:  parts[2],
			High:   parts[3],
			Low:    parts[4],
			Volume: parts[5],
			Amount: parts[6],
			PctChg: parts[8],
		})
	}
	return records, nil
}

type emQuoteResponse struct {
	Data *struct {
		Name         string  `json:"f58"`
		Price        float64 `json:"f43"`
		VolumeRatio  float64 `json:"f50"`
		PERatio      float64 `json:"f162"`
		PBRatio      float64 `json:"f167"`
		TurnoverRate float64 `json:"f168"`
	} `json:"data"`
}

// RealtimeQuote returns the live snapshot for one stock. The API
// reports prices and ratios scaled by 100.
func (f *EastMoneyFetcher) RealtimeQuote(ctx context.Context, code string) (*model.RealtimeQuote, error) {
	RandomSleep(f.SleepMin, f.SleepMax)

	q := url.Values{}
	q.Set("secid", secid(code))
	q.Set("fields", "f43,f50,f57,f58,f162,f167,f168")

	var resp emQuoteResponse
	if err := f.getJSON(ctx, f.QuoteURL+"?"+q.Encode(), &resp); err != nil {
		return nil, newFetchError(f.Name(), code, err)
	}
	if resp.Data == nil {
		return nil, newFetchError(f.Name(), code, ErrEmptyData)
	}
	d := resp.Data
	return &model.RealtimeQuote{
		Code:         code,
		Name:         d.Name,
		Price:        d.Price / 100,
		VolumeRatio:  d.VolumeRatio / 100,
		TurnoverRate: d.TurnoverRate / 100,
		PERatio:      d.PERatio / 100,
		PBRatio:      d.PBRatio / 100,
	}, nil
}

type emChipResponse struct {
	Data *struct {
		Rows []struct {
			Date            string  `json:"date"`
			ProfitRatio     float64 `json:"benefitRatio"`
			AvgCost         float64 `json:"avgCost"`
			Concentration90 float64 `json:"concentration90"`
			Concentration70 float64 `json:"concentration70"`
		} `json:"data"`
	} `json:"data"`
}

// ChipDistribution returns the latest cost-basis statistics for one stock.
func (f *EastMoneyFetcher) ChipDistribution(ctx context.Context, code string) (*model.ChipDistribution, error) {
	RandomSleep(f.SleepMin, f.SleepMax)

	q := url.Values{}
	q.Set("secid", secid(code))
	q.Set("type", "1")

	var resp emChipResponse
	if err := f.getJSON(ctx, f.ChipURL+"?"+q.Encode(), &resp); err != nil {
		return nil, newFetchError(f.Name(), code, err)
	}
	if resp.Data == nil || len(resp.Data.Rows) == 0 {
		return nil, newFetchError(f.Name(), code, ErrEmptyData)
	}
	last := resp.Data.Rows[len(resp.Data.Rows)-1]
	return &model.ChipDistribution{
		ProfitRatio:     last.ProfitRatio,
		AvgCost:         last.AvgCost,
		Concentration90: last.Concentration90,
		Concentration70: last.Concentration70,
	}, nil
}

func (f *EastMoneyFetcher) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("eastmoney: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("eastmoney decode: %w", err)
	}
	return nil
}
