package fetcher

import (
	"context"
	"math/rand"
	"time"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

// RawTable is one upstream source's native response shape. The shared
// pipeline only needs to know whether it is empty; the Normalize of the
// same fetcher owns the concrete type.
type RawTable interface {
	Len() int
}

// Record is one normalized trading day before cleaning. Fields keep the
// upstream's textual form; numeric coercion happens in the shared
// cleaning step, where unparseable values become missing.
type Record struct {
	Date   string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string
	Amount string
	PctChg string
}

// Fetcher is one upstream daily-data source. Implementations provide
// raw acquisition and shape mapping only; date defaulting, cleaning and
// indicator derivation are shared by GetDailyData.
type Fetcher interface {
	Name() string
	// Priority orders fetchers inside the Manager, lower tried first.
	Priority() int
	FetchRaw(ctx context.Context, code, startDate, endDate string) (RawTable, error)
	Normalize(raw RawTable, code string) ([]Record, error)
}

// QuoteFetcher is the optional realtime-quote capability of a source.
type QuoteFetcher interface {
	RealtimeQuote(ctx context.Context, code string) (*model.RealtimeQuote, error)
}

// ChipFetcher is the optional chip-distribution capability of a source.
type ChipFetcher interface {
	ChipDistribution(ctx context.Context, code string) (*model.ChipDistribution, error)
}

// RandomSleep blocks for a uniformly random duration in
// [minSeconds, maxSeconds]. Adapters call it between successive network
// calls to stay under upstream rate limits.
func RandomSleep(minSeconds, maxSeconds float64) {
	if maxSeconds < minSeconds {
		maxSeconds = minSeconds
	}
	d := minSeconds + rand.Float64()*(maxSeconds-minSeconds)
	time.Sleep(time.Duration(d * float64(time.Second)))
}
