package levels

import (
	"fmt"

	"LevelScan/internal/domain/models"
)

// Pivots computes one method's pivot levels from the last candle of the
// window. An empty window returns (nil, nil): no pivot levels is a data
// condition, not an error. An unknown method is a caller bug and fails with
// ErrInvalidArgument.
func Pivots(candles []models.Candle, method models.PivotMethod) (*models.PivotSet, error) {
	if len(candles) == 0 {
		return nil, nil
	}
	last := candles[len(candles)-1]
	h, l, c := last.High, last.Low, last.Close
	p := (h + l + c) / 3
	rng := h - l

	ps := models.PivotSet{Pivot: p, Method: method}
	switch method {
	case models.PivotStandard:
		ps.R1, ps.S1 = 2*p-l, 2*p-h
		ps.R2, ps.S2 = p+rng, p-rng
		ps.R3, ps.S3 = h+2*(p-l), l-2*(h-p)
	case models.PivotFibonacci:
		ps.R1, ps.S1 = p+0.382*rng, p-0.382*rng
		ps.R2, ps.S2 = p+0.618*rng, p-0.618*rng
		ps.R3, ps.S3 = p+rng, p-rng
	case models.PivotCamarilla:
		ps.R1, ps.S1 = c+rng*1.1/12, c-rng*1.1/12
		ps.R2, ps.S2 = c+rng*1.1/6, c-rng*1.1/6
		ps.R3, ps.S3 = c+rng*1.1/4, c-rng*1.1/4
	default:
		return nil, fmt.Errorf("pivot method %q: %w", method, ErrInvalidArgument)
	}
	return &ps, nil
}
