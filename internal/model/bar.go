package model

import "time"

// DailyBar is one cleaned trading day for one instrument. Open, High,
// Low, Amount and PctChg may be NaN when the upstream value failed
// numeric coercion; Close and Volume are always present after cleaning.
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
	PctChg float64

	// Derived columns, rounded to 2 decimals.
	MA5         float64
	MA10        float64
	MA20        float64
	VolumeRatio float64
}

// RealtimeQuote is a live snapshot for one stock, obtained through a
// best-effort side lookup. PERatio and PBRatio may be zero when the
// upstream does not report them.
type RealtimeQuote struct {
	Code         string
	Name         string
	Price        float64
	VolumeRatio  float64
	TurnoverRate float64
	PERatio      float64
	PBRatio      float64
}

// ChipDistribution holds cost-basis statistics for one stock.
// ProfitRatio and the concentration values are fractions in [0, 1].
type ChipDistribution struct {
	ProfitRatio     float64
	AvgCost         float64
	Concentration90 float64
	Concentration70 float64
}
