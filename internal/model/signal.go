package model

import "time"

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// StockSignal is the analyzer's output for one stock on one trading day.
type StockSignal struct {
	Code       string
	TradeDate  time.Time
	Source     string // data source that produced the daily series
	Latest     DailyBar
	Quote      *RealtimeQuote    // nil when the side lookup failed
	Chip       *ChipDistribution // nil when the side lookup failed
	Factors    []FactorScore
	TotalScore float64
	Advice     string
	Warning    string
}
