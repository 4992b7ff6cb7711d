package levels

import "LevelScan/internal/domain/models"

// Fractals scans for swing lows (support) and swing highs (resistance). A
// bar is a resistance fractal when its high is the maximum over the left bars
// before and right bars after it; neighborhoods clip at the window edges, so
// even windows shorter than left+right+1 report their extremes. Comparison
// is inclusive, so every bar tied for the extreme is reported. Support is
// the mirrored check on lows.
func Fractals(candles []models.Candle, left, right int) (support, resistance []float64) {
	n := len(candles)
	if left < 0 || right < 0 || n == 0 {
		return nil, nil
	}
	for i := 0; i < n; i++ {
		lo := i - left
		if lo < 0 {
			lo = 0
		}
		hi := i + right
		if hi > n-1 {
			hi = n - 1
		}
		isHigh, isLow := true, true
		for j := lo; j <= hi; j++ {
			if candles[j].High > candles[i].High {
				isHigh = false
			}
			if candles[j].Low < candles[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			resistance = append(resistance, candles[i].High)
		}
		if isLow {
			support = append(support, candles[i].Low)
		}
	}
	return support, resistance
}
