package models

import "time"

// BlockType marks an order block as accumulation or distribution.
type BlockType string

const (
	BlockBullish BlockType = "bullish"
	BlockBearish BlockType = "bearish"
)

// OrderBlock flags a high-volume candle followed by a strong directional
// move. Strength normalizes the follow-through move to 0..1, saturating at a
// 10% move.
type OrderBlock struct {
	Type      BlockType `json:"type"`
	Top       float64   `json:"top"`
	Bottom    float64   `json:"bottom"`
	Timestamp time.Time `json:"timestamp"`
	Strength  float64   `json:"strength"`
}
