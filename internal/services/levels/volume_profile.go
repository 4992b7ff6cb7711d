package levels

import (
	"fmt"
	"sort"

	"LevelScan/internal/domain/models"
)

// BuildVolumeProfile bins the window's price range into numBins equal-width
// buckets and attributes each candle's full volume to every bucket its
// [low, high] range overlaps. The attribution double-counts volume across
// buckets a candle spans; TotalVolume therefore sums over buckets, not over
// candles. A flat window (min == max) collapses to a single bucket at that
// price. Empty windows return a zero-value profile.
func BuildVolumeProfile(candles []models.Candle, numBins int) (models.VolumeProfile, error) {
	var vp models.VolumeProfile
	if numBins <= 0 {
		return vp, fmt.Errorf("num_bins %d: %w", numBins, ErrInvalidArgument)
	}
	if len(candles) == 0 {
		return vp, nil
	}

	priceMin, priceMax := candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		if c.Low < priceMin {
			priceMin = c.Low
		}
		if c.High > priceMax {
			priceMax = c.High
		}
	}

	var bins []models.VolumeBin
	if priceMax == priceMin {
		vol := 0.0
		for _, c := range candles {
			vol += c.Volume
		}
		if vol > 0 {
			bins = append(bins, models.VolumeBin{PriceLow: priceMin, PriceHigh: priceMax, Volume: vol})
		}
	} else {
		width := (priceMax - priceMin) / float64(numBins)
		for i := 0; i < numBins; i++ {
			binLow := priceMin + float64(i)*width
			binHigh := binLow + width
			if i == numBins-1 {
				binHigh = priceMax
			}
			vol := 0.0
			for _, c := range candles {
				if c.Low <= binHigh && c.High >= binLow {
					vol += c.Volume
				}
			}
			if vol > 0 {
				bins = append(bins, models.VolumeBin{PriceLow: binLow, PriceHigh: binHigh, Volume: vol})
			}
		}
	}
	if len(bins) == 0 {
		return vp, nil
	}

	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Volume > bins[j].Volume })

	poc := bins[0]
	vp.POC = &poc
	for _, b := range bins {
		vp.TotalVolume += b.Volume
	}

	target := 0.7 * vp.TotalVolume
	acc := 0.0
	for _, b := range bins {
		if acc >= target {
			break
		}
		vp.ValueArea = append(vp.ValueArea, b)
		acc += b.Volume
	}
	if len(vp.ValueArea) > maxValueAreaBins {
		vp.ValueArea = vp.ValueArea[:maxValueAreaBins]
	}
	return vp, nil
}
