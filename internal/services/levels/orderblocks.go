package levels

import (
	"fmt"
	"math"
	"sort"

	"LevelScan/internal/domain/models"
)

// OrderBlocks scans the last lookback candles for institutional
// accumulation/distribution candidates: a candle whose body agrees with a
// strong follow-through move on the next candle while carrying elevated
// volume versus the window mean. A bullish block needs the next close above
// close*(1+move), a green body, and volume above multiplier*mean; bearish is
// the mirror. Both checks run independently, matching the reference
// behavior: a contrived candle can in principle emit both block types.
//
// Strength normalizes the follow-through move, saturating at a 10% move.
// Windows shorter than lookback+5 yield an empty slice. The full list is
// returned sorted by descending strength; callers truncate to their top N.
func (d *Detector) OrderBlocks(candles []models.Candle, lookback int) ([]models.OrderBlock, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback %d: %w", lookback, ErrInvalidArgument)
	}
	if len(candles) < lookback+5 {
		return []models.OrderBlock{}, nil
	}
	window := candles[len(candles)-lookback:]

	meanVol := 0.0
	for _, c := range window {
		meanVol += c.Volume
	}
	meanVol /= float64(len(window))
	volGate := meanVol * d.cfg.VolumeMultiplier

	blocks := []models.OrderBlock{}
	for i := 2; i < len(window)-2; i++ {
		cur, next := window[i], window[i+1]
		if cur.Close <= 0 {
			continue
		}
		if next.Close > cur.Close*(1+d.cfg.MoveThreshold) &&
			cur.Close > cur.Open &&
			cur.Volume > volGate {
			move := (next.Close - cur.Close) / cur.Close
			blocks = append(blocks, models.OrderBlock{
				Type:      models.BlockBullish,
				Top:       cur.High,
				Bottom:    cur.Low,
				Timestamp: cur.Bucket,
				Strength:  math.Min(move, 0.1) * 10,
			})
		}
		if next.Close < cur.Close*(1-d.cfg.MoveThreshold) &&
			cur.Close < cur.Open &&
			cur.Volume > volGate {
			move := (cur.Close - next.Close) / cur.Close
			blocks = append(blocks, models.OrderBlock{
				Type:      models.BlockBearish,
				Top:       cur.High,
				Bottom:    cur.Low,
				Timestamp: cur.Bucket,
				Strength:  math.Min(move, 0.1) * 10,
			})
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Strength > blocks[j].Strength })
	return blocks, nil
}
