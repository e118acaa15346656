package analyzer

import "github.com/uniqueww/daily-stock-analysis-ql/internal/model"

// Tiers maps a total score range to an advice label.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.0, "重点关注"},
	{0.5, "关注"},
	{-0.5, "中性"},
	{-1.0, "谨慎"},
}

// DefaultAdvice is the label for scores below every tier.
const DefaultAdvice = "回避"

func mapAdvice(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultAdvice
}

// Evaluate computes the deterministic technical signal for one stock
// from its cleaned daily series plus the optional side lookups. bars
// must be non-empty and ascending by date; quote and chip may be nil.
func Evaluate(code, source string, bars []model.DailyBar, quote *model.RealtimeQuote, chip *model.ChipDistribution) *model.StockSignal {
	latest := bars[len(bars)-1]

	f1 := scoreTrend(latest)
	f2 := scoreVolume(latest)
	f3 := scoreMomentum(bars)
	f4 := scoreChip(chip)

	factors := []model.FactorScore{f1, f2, f3, f4}
	totalScore := f1.Weighted + f2.Weighted + f3.Weighted + f4.Weighted

	signal := &model.StockSignal{
		Code:       code,
		TradeDate:  latest.Date,
		Source:     source,
		Latest:     latest,
		Quote:      quote,
		Chip:       chip,
		Factors:    factors,
		TotalScore: totalScore,
		Advice:     mapAdvice(totalScore),
	}

	if quote != nil && quote.VolumeRatio >= 3 {
		signal.Warning = "⚠️ 量比异常放大，注意波动风险"
	}

	return signal
}
