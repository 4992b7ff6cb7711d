package models

import "time"

// Candle represents one OHLCV bar. Windows passed into the detector are
// chronologically ordered with no duplicate timestamps; the store guarantees
// ascending order.
type Candle struct {
	Bucket time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}
