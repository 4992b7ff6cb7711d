package levels

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"LevelScan/internal/domain/models"
)

// ErrInvalidArgument reports a caller bug: an unknown pivot method or a
// non-positive bin/lookback count. Insufficient data is never an error;
// windows too short for a component simply yield empty results.
var ErrInvalidArgument = errors.New("invalid argument")

// maxZones caps how many clustered levels per side are scored and returned,
// nearest to the current price first.
const maxZones = 10

// maxValueAreaBins caps the value area regardless of whether the 70% volume
// target was reached.
const maxValueAreaBins = 10

// Config tunes the detector. Zero fields fall back to defaults.
type Config struct {
	Sensitivity      float64 // level-merge ratio and touch tolerance
	LeftBars         int     // fractal lookback
	RightBars        int     // fractal lookahead
	NumBins          int     // volume profile bins
	Lookback         int     // zone detection window
	BlockLookback    int     // order block window
	MoveThreshold    float64 // order block follow-through move ratio
	VolumeMultiplier float64 // order block volume gate vs window mean
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{
		Sensitivity:      0.02,
		LeftBars:         5,
		RightBars:        5,
		NumBins:          50,
		Lookback:         200,
		BlockLookback:    50,
		MoveThreshold:    0.02,
		VolumeMultiplier: 1.5,
	}
}

// Detector runs support/resistance and order-block detection over candle
// windows. It is stateless and safe for concurrent use; a call never mutates
// the window it is given.
type Detector struct {
	cfg Config
}

// New creates a Detector, filling unset config fields from DefaultConfig.
func New(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.Sensitivity <= 0 {
		cfg.Sensitivity = def.Sensitivity
	}
	if cfg.LeftBars <= 0 {
		cfg.LeftBars = def.LeftBars
	}
	if cfg.RightBars <= 0 {
		cfg.RightBars = def.RightBars
	}
	if cfg.NumBins <= 0 {
		cfg.NumBins = def.NumBins
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = def.Lookback
	}
	if cfg.BlockLookback <= 0 {
		cfg.BlockLookback = def.BlockLookback
	}
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = def.MoveThreshold
	}
	if cfg.VolumeMultiplier <= 0 {
		cfg.VolumeMultiplier = def.VolumeMultiplier
	}
	return &Detector{cfg: cfg}
}

// Config returns the effective tunables.
func (d *Detector) Config() Config { return d.cfg }

// Zones detects consolidated support and resistance zones over the last
// lookback candles. Candidate levels come from three independent sources
// (fractals, pivot sets, value-area bin midpoints), are split strictly around
// currentPrice, merged into centroids, and scored by historical touches.
func (d *Detector) Zones(candles []models.Candle, currentPrice float64, lookback int) (models.LevelAnalysis, error) {
	if lookback <= 0 {
		return models.LevelAnalysis{}, fmt.Errorf("lookback %d: %w", lookback, ErrInvalidArgument)
	}
	if lookback > len(candles) {
		lookback = len(candles)
	}
	window := candles[len(candles)-lookback:]

	support, resistance := Fractals(window, d.cfg.LeftBars, d.cfg.RightBars)

	pivots := make(map[models.PivotMethod]models.PivotSet, 3)
	for _, method := range []models.PivotMethod{models.PivotStandard, models.PivotFibonacci, models.PivotCamarilla} {
		ps, err := Pivots(window, method)
		if err != nil {
			return models.LevelAnalysis{}, err
		}
		if ps == nil {
			continue
		}
		pivots[method] = *ps
		support = append(support, ps.S1, ps.S2, ps.S3)
		resistance = append(resistance, ps.R1, ps.R2, ps.R3)
	}

	profile, err := BuildVolumeProfile(window, d.cfg.NumBins)
	if err != nil {
		return models.LevelAnalysis{}, err
	}
	for _, bin := range profile.ValueArea {
		switch mid := bin.Price(); {
		case mid < currentPrice:
			support = append(support, mid)
		case mid > currentPrice:
			resistance = append(resistance, mid)
		}
	}

	// Duplicates across sources are intentional: they feed clustering weight.
	support = keepBelow(support, currentPrice)
	resistance = keepAbove(resistance, currentPrice)

	supCentroids := ClusterLevels(support, d.cfg.Sensitivity)
	resCentroids := ClusterLevels(resistance, d.cfg.Sensitivity)

	// Nearest to current price first: support descending, resistance ascending.
	sort.Sort(sort.Reverse(sort.Float64Slice(supCentroids)))
	if len(supCentroids) > maxZones {
		supCentroids = supCentroids[:maxZones]
	}
	if len(resCentroids) > maxZones {
		resCentroids = resCentroids[:maxZones]
	}

	return models.LevelAnalysis{
		CurrentPrice:  currentPrice,
		Support:       d.scoreZones(supCentroids, window, models.ZoneSupport),
		Resistance:    d.scoreZones(resCentroids, window, models.ZoneResistance),
		Pivots:        pivots,
		VolumeProfile: profile,
	}, nil
}

// scoreZones counts candles touching each centroid within a tolerance band
// derived from the window's mean close. Input ordering is preserved.
func (d *Detector) scoreZones(centroids []float64, window []models.Candle, zt models.ZoneType) []models.Zone {
	tolerance := meanClose(window) * d.cfg.Sensitivity
	zones := make([]models.Zone, 0, len(centroids))
	for _, level := range centroids {
		touches := 0
		for _, c := range window {
			p := c.Low
			if zt == models.ZoneResistance {
				p = c.High
			}
			if p >= level-tolerance && p <= level+tolerance {
				touches++
			}
		}
		zones = append(zones, models.Zone{
			Level:    level,
			Touches:  touches,
			Strength: math.Min(float64(touches)/5, 1.0),
			Type:     zt,
		})
	}
	return zones
}

func meanClose(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candles {
		sum += c.Close
	}
	return sum / float64(len(candles))
}

func keepBelow(values []float64, limit float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if v < limit {
			out = append(out, v)
		}
	}
	return out
}

func keepAbove(values []float64, limit float64) []float64 {
	out := values[:0:0]
	for _, v := range values {
		if v > limit {
			out = append(out, v)
		}
	}
	return out
}
