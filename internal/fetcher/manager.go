package fetcher

import (
	"context"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

// Manager tries fetchers in ascending priority order until one yields
// non-empty data. A single source's failure is never fatal; only when
// every source fails does the caller see one aggregated error.
type Manager struct {
	fetchers []Fetcher
}

// NewManager builds a Manager over the given fetchers, sorted ascending
// by priority. With no fetchers it installs the default East Money source.
func NewManager(fetchers ...Fetcher) *Manager {
	if len(fetchers) == 0 {
		fetchers = []Fetcher{NewEastMoneyFetcher("")}
	}
	sorted := make([]Fetcher, len(fetchers))
	copy(sorted, fetchers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	log.Infof("已初始化数据源: %s", names(sorted))
	return &Manager{fetchers: sorted}
}

// Fetchers returns the configured sources in trial order.
func (m *Manager) Fetchers() []Fetcher {
	out := make([]Fetcher, len(m.fetchers))
	copy(out, m.fetchers)
	return out
}

// GetDailyData returns the cleaned daily series for one stock plus the
// name of the source that produced it. Sources are tried strictly in
// priority order; the first non-empty result wins.
func (m *Manager) GetDailyData(ctx context.Context, code, startDate, endDate string, days int) ([]model.DailyBar, string, error) {
	var attempts []error
	for _, f := range m.fetchers {
		log.Infof("尝试 [%s] 获取 %s...", f.Name(), code)
		bars, err := GetDailyData(ctx, f, code, startDate, endDate, days)
		if err != nil {
			attempts = append(attempts, err)
			continue
		}
		if len(bars) > 0 {
			return bars, f.Name(), nil
		}
		attempts = append(attempts, newFetchError(f.Name(), code, ErrEmptyData))
	}
	return nil, "", &ExhaustedError{Code: code, Attempts: attempts}
}

// RealtimeQuote is a best-effort side lookup: the first source exposing
// the capability that answers wins; total failure is an absent result,
// never an error.
func (m *Manager) RealtimeQuote(ctx context.Context, code string) (*model.RealtimeQuote, bool) {
	for _, f := range m.fetchers {
		qf, ok := f.(QuoteFetcher)
		if !ok {
			continue
		}
		quote, err := qf.RealtimeQuote(ctx, code)
		if err != nil {
			log.Warnf("[%s] 实时行情获取失败 %s: %v", f.Name(), code, err)
			continue
		}
		if quote != nil {
			return quote, true
		}
	}
	return nil, false
}

// ChipDistribution is the chip-data counterpart of RealtimeQuote.
func (m *Manager) ChipDistribution(ctx context.Context, code string) (*model.ChipDistribution, bool) {
	for _, f := range m.fetchers {
		cf, ok := f.(ChipFetcher)
		if !ok {
			continue
		}
		chip, err := cf.ChipDistribution(ctx, code)
		if err != nil {
			log.Warnf("[%s] 筹码分布获取失败 %s: %v", f.Name(), code, err)
			continue
		}
		if chip != nil {
			return chip, true
		}
	}
	return nil, false
}

func names(fetchers []Fetcher) string {
	parts := make([]string, len(fetchers))
	for i, f := range fetchers {
		parts[i] = f.Name()
	}
	return strings.Join(parts, ", ")
}
