package recorder

import "time"

// AnalysisRecord is one stock's daily analysis outcome.
type AnalysisRecord struct {
	Code        string
	TradeDate   time.Time
	Source      string
	Close       float64
	PctChg      float64
	MA5         float64
	MA10        float64
	MA20        float64
	VolumeRatio float64
	TotalScore  float64
	Advice      string
}

// Recorder persists analysis history. The fetch pipeline itself never
// records anything; only the surrounding orchestrator does.
type Recorder interface {
	RecordAnalysis(rec *AnalysisRecord) error
	Close() error
}
