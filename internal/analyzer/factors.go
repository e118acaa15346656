package analyzer

import (
	"fmt"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

// scoreTrend scores the moving-average alignment of the latest bar.
// Weight: 0.40
func scoreTrend(bar model.DailyBar) model.FactorScore {
	bullish := bar.Close > bar.MA5 && bar.MA5 > bar.MA10 && bar.MA10 > bar.MA20
	bearish := bar.Close < bar.MA5 && bar.MA5 < bar.MA10 && bar.MA10 < bar.MA20

	var score float64
	var commentary string
	switch {
	case bullish:
		score = 2.0
		commentary = "多头排列"
	case bar.Close > bar.MA5 && bar.Close > bar.MA20:
		score = 1.0
		commentary = "站上短期均线"
	case bearish:
		score = -2.0
		commentary = "空头排列"
	case bar.Close < bar.MA20:
		score = -1.0
		commentary = "跌破20日均线"
	default:
		score = 0
		commentary = "震荡"
	}

	return model.FactorScore{
		Name:       "均线趋势",
		RawScore:   score,
		Weight:     0.40,
		Weighted:   score * 0.40,
		Commentary: commentary,
	}
}

// scoreVolume scores today's volume ratio against the prior 5-day
// average volume. Weight: 0.25
func scoreVolume(bar model.DailyBar) model.FactorScore {
	vr := bar.VolumeRatio
	up := bar.PctChg > 0 // false when pct_chg is missing

	var score float64
	var commentary string
	switch {
	case vr >= 2.5 && up:
		score = 1.5
		commentary = "放量上涨"
	case vr >= 2.5:
		score = -1.0
		commentary = "放量下跌"
	case vr >= 1.5 && up:
		score = 0.5
		commentary = "温和放量"
	case vr < 0.6:
		score = -0.5
		commentary = "明显缩量"
	default:
		score = 0
		commentary = "量能正常"
	}

	return model.FactorScore{
		Name:       "量能",
		RawScore:   score,
		Weight:     0.25,
		Weighted:   score * 0.25,
		Commentary: fmt.Sprintf("%s (量比 %.2f)", commentary, vr),
	}
}

// scoreMomentum scores the 5-day price change. Weight: 0.20
func scoreMomentum(bars []model.DailyBar) model.FactorScore {
	if len(bars) < 6 {
		return model.FactorScore{Name: "动量", RawScore: 0, Weight: 0.20, Weighted: 0, Commentary: "历史数据不足"}
	}
	last := bars[len(bars)-1].Close
	prev := bars[len(bars)-6].Close
	chg := (last - prev) / prev * 100

	var score float64
	switch {
	case chg >= 10:
		score = 1.5
	case chg >= 5:
		score = 1.0
	case chg > 0:
		score = 0.5
	case chg > -5:
		score = -0.5
	default:
		score = -1.5
	}

	return model.FactorScore{
		Name:       "动量",
		RawScore:   score,
		Weight:     0.20,
		Weighted:   score * 0.20,
		Commentary: fmt.Sprintf("5日涨跌 %+.1f%%", chg),
	}
}

// scoreChip scores the holder profit ratio when chip data is present.
// Weight: 0.15
func scoreChip(chip *model.ChipDistribution) model.FactorScore {
	if chip == nil {
		return model.FactorScore{Name: "筹码", RawScore: 0, Weight: 0.15, Weighted: 0, Commentary: "筹码数据缺失"}
	}
	p := chip.ProfitRatio * 100

	var score float64
	switch {
	case p <= 10:
		score = 1.5
	case p <= 30:
		score = 1.0
	case p <= 70:
		score = 0
	case p <= 90:
		score = -0.5
	default:
		score = -1.0
	}

	return model.FactorScore{
		Name:       "筹码",
		RawScore:   score,
		Weight:     0.15,
		Weighted:   score * 0.15,
		Commentary: fmt.Sprintf("获利盘 %.0f%%", p),
	}
}
