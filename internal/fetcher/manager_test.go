package fetcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

type quoteStub struct {
	stubFetcher
	quote    *model.RealtimeQuote
	chip     *model.ChipDistribution
	sideErr  error
}

func (f *quoteStub) RealtimeQuote(context.Context, string) (*model.RealtimeQuote, error) {
	return f.quote, f.sideErr
}

func (f *quoteStub) ChipDistribution(context.Context, string) (*model.ChipDistribution, error) {
	return f.chip, f.sideErr
}

func TestNewManager_SortsByPriority(t *testing.T) {
	b := &stubFetcher{name: "B", priority: 2}
	a := &stubFetcher{name: "A", priority: 1}

	m := NewManager(b, a)

	got := m.Fetchers()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name())
	assert.Equal(t, "B", got[1].Name())
}

func TestNewManager_DefaultsToEastMoney(t *testing.T) {
	m := NewManager()

	got := m.Fetchers()
	require.Len(t, got, 1)
	assert.Equal(t, "eastmoney", got[0].Name())
}

func TestManager_FirstSuccessWins(t *testing.T) {
	a := &stubFetcher{name: "A", priority: 1, fetchErr: errors.New("boom-a")}
	b := &stubFetcher{name: "B", priority: 2, records: []Record{rec("2024-01-02", "10", "100")}}
	m := NewManager(a, b)

	bars, source, err := m.GetDailyData(context.Background(), "600519", "2024-01-01", "2024-02-01", 30)
	require.NoError(t, err)
	assert.Equal(t, "B", source)
	require.Len(t, bars, 1)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestManager_StopsAfterSuccess(t *testing.T) {
	a := &stubFetcher{name: "A", priority: 1, records: []Record{rec("2024-01-02", "10", "100")}}
	b := &stubFetcher{name: "B", priority: 2, records: []Record{rec("2024-01-02", "99", "999")}}
	m := NewManager(a, b)

	_, source, err := m.GetDailyData(context.Background(), "600519", "2024-01-01", "2024-02-01", 30)
	require.NoError(t, err)
	assert.Equal(t, "A", source)
	assert.Equal(t, 0, b.calls)
}

func TestManager_EmptySuccessTriesNext(t *testing.T) {
	a := &stubFetcher{name: "A", priority: 1} // answers with zero rows
	b := &stubFetcher{name: "B", priority: 2, records: []Record{rec("2024-01-02", "10", "100")}}
	m := NewManager(a, b)

	bars, source, err := m.GetDailyData(context.Background(), "600519", "2024-01-01", "2024-02-01", 30)
	require.NoError(t, err)
	assert.Equal(t, "B", source)
	require.Len(t, bars, 1)
}

func TestManager_AllSourcesFail(t *testing.T) {
	errA := errors.New("boom-a")
	errB := errors.New("boom-b")
	a := &stubFetcher{name: "A", priority: 1, fetchErr: errA}
	b := &stubFetcher{name: "B", priority: 2, fetchErr: errB}
	m := NewManager(a, b)

	_, _, err := m.GetDailyData(context.Background(), "600519", "2024-01-01", "2024-02-01", 30)
	require.Error(t, err)

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "600519", ex.Code)
	require.Len(t, ex.Attempts, 2)

	// Original causes stay reachable through the aggregate.
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)

	msg := err.Error()
	assert.Contains(t, msg, "所有数据源获取 600519 失败")
	assert.Less(t, strings.Index(msg, "boom-a"), strings.Index(msg, "boom-b"),
		"attempts must appear in priority order")
}

func TestManager_RealtimeQuoteFallsThrough(t *testing.T) {
	plain := &stubFetcher{name: "plain", priority: 1}
	broken := &quoteStub{stubFetcher: stubFetcher{name: "broken", priority: 2}, sideErr: errors.New("quote down")}
	good := &quoteStub{stubFetcher: stubFetcher{name: "good", priority: 3},
		quote: &model.RealtimeQuote{Code: "600519", Price: 1690}}
	m := NewManager(plain, broken, good)

	quote, ok := m.RealtimeQuote(context.Background(), "600519")
	require.True(t, ok)
	assert.Equal(t, 1690.0, quote.Price)
}

func TestManager_RealtimeQuoteAbsent(t *testing.T) {
	m := NewManager(&stubFetcher{name: "plain", priority: 1})

	quote, ok := m.RealtimeQuote(context.Background(), "600519")
	assert.False(t, ok)
	assert.Nil(t, quote)
}

func TestManager_ChipDistributionBestEffort(t *testing.T) {
	good := &quoteStub{stubFetcher: stubFetcher{name: "good", priority: 1},
		chip: &model.ChipDistribution{ProfitRatio: 0.62}}
	m := NewManager(good)

	chip, ok := m.ChipDistribution(context.Background(), "600519")
	require.True(t, ok)
	assert.Equal(t, 0.62, chip.ProfitRatio)
}
