package models

import "time"

// PivotMethod selects a pivot point formula family.
type PivotMethod string

const (
	PivotStandard  PivotMethod = "standard"
	PivotFibonacci PivotMethod = "fibonacci"
	PivotCamarilla PivotMethod = "camarilla"
)

// PivotSet holds one method's pivot levels, computed from the last candle of
// a window. Standard guarantees S1 < P < R1; fibonacci and camarilla may
// overlap across methods.
type PivotSet struct {
	Pivot  float64     `json:"pivot"`
	R1     float64     `json:"r1"`
	R2     float64     `json:"r2"`
	R3     float64     `json:"r3"`
	S1     float64     `json:"s1"`
	S2     float64     `json:"s2"`
	S3     float64     `json:"s3"`
	Method PivotMethod `json:"method"`
}

// VolumeBin is one price bucket of a volume profile.
type VolumeBin struct {
	PriceLow  float64 `json:"price_low"`
	PriceHigh float64 `json:"price_high"`
	Volume    float64 `json:"volume"`
}

// Price returns the bin midpoint.
func (b VolumeBin) Price() float64 { return (b.PriceLow + b.PriceHigh) / 2 }

// VolumeProfile summarizes traded volume by price. Volume is attributed to
// every bin a candle's range overlaps, so TotalVolume can exceed the raw
// window volume sum.
type VolumeProfile struct {
	POC         *VolumeBin  `json:"poc"`
	ValueArea   []VolumeBin `json:"value_area"`
	TotalVolume float64     `json:"total_volume"`
}

// ZoneType marks a zone as support or resistance.
type ZoneType string

const (
	ZoneSupport    ZoneType = "support"
	ZoneResistance ZoneType = "resistance"
)

// Zone is a consolidated, scored support or resistance level. Support zones
// sit strictly below the current price, resistance strictly above.
type Zone struct {
	Level    float64  `json:"level"`
	Touches  int      `json:"touches"`
	Strength float64  `json:"strength"` // 0..1, saturates at 5 touches
	Type     ZoneType `json:"type"`
}

// LevelAnalysis is the zone-detection output for one window.
type LevelAnalysis struct {
	Symbol        string                   `json:"symbol,omitempty"`
	Timestamp     time.Time                `json:"timestamp,omitempty"`
	CurrentPrice  float64                  `json:"current_price"`
	Support       []Zone                   `json:"support"`
	Resistance    []Zone                   `json:"resistance"`
	Pivots        map[PivotMethod]PivotSet `json:"pivots"`
	VolumeProfile VolumeProfile            `json:"volume_profile"`
}
