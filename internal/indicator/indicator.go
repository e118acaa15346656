package indicator

import (
	"math"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/model"
)

// Apply fills the derived columns of a cleaned daily series in place:
// ma5/ma10/ma20 over close, and the volume ratio against the prior
// 5-day average volume. Derived values are rounded to 2 decimals.
func Apply(bars []model.DailyBar) {
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	ma5 := RollingMean(closes, 5)
	ma10 := RollingMean(closes, 10)
	ma20 := RollingMean(closes, 20)
	avgVol5 := RollingMean(volumes, 5)

	for i := range bars {
		bars[i].MA5 = Round2(ma5[i])
		bars[i].MA10 = Round2(ma10[i])
		bars[i].MA20 = Round2(ma20[i])
		bars[i].VolumeRatio = Round2(volumeRatio(volumes, avgVol5, i))
	}
}

// RollingMean computes the trailing mean over up to window values
// ending at each index. Partial windows at the start of the series use
// whatever history exists.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// volumeRatio is today's volume over yesterday's 5-day average volume.
// The earliest row has no prior average and defaults to 1.0, as does
// any quotient that is not a finite number.
func volumeRatio(volumes, avgVol5 []float64, i int) float64 {
	if i == 0 {
		return 1.0
	}
	r := volumes[i] / avgVol5[i-1]
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 1.0
	}
	return r
}

// Round2 rounds to 2 decimal places. NaN stays NaN.
func Round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
