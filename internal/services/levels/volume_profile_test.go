package levels

import (
	"errors"
	"testing"

	"LevelScan/internal/domain/models"
)

func TestBuildVolumeProfileEmpty(t *testing.T) {
	vp, err := BuildVolumeProfile(nil, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.POC != nil || len(vp.ValueArea) != 0 || vp.TotalVolume != 0 {
		t.Fatalf("empty window must yield a zero profile, got %+v", vp)
	}
}

func TestBuildVolumeProfileInvalidBins(t *testing.T) {
	window := []models.Candle{hourlyCandle(0, 100, 101, 99, 100, 1000)}
	if _, err := BuildVolumeProfile(window, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestBuildVolumeProfilePOC(t *testing.T) {
	// Concentrate volume around 100: the bins overlapping [99, 101] must win.
	window := []models.Candle{
		hourlyCandle(0, 100, 101, 99, 100, 5000),
		hourlyCandle(1, 100, 101, 99, 100, 5000),
		hourlyCandle(2, 105, 110, 104, 108, 100),
		hourlyCandle(3, 92, 94, 90, 93, 100),
	}
	vp, err := BuildVolumeProfile(window, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.POC == nil {
		t.Fatal("expected a POC")
	}
	if vp.POC.PriceLow > 101 || vp.POC.PriceHigh < 99 {
		t.Fatalf("POC %+v does not overlap the high-volume band [99,101]", vp.POC)
	}
	if vp.POC.Volume < 10000 {
		t.Fatalf("POC volume %v should include both heavy candles", vp.POC.Volume)
	}
}

func TestBuildVolumeProfileValueArea(t *testing.T) {
	window := make([]models.Candle, 0, 60)
	for i := 0; i < 60; i++ {
		base := 100 + float64(i%12)
		window = append(window, hourlyCandle(i, base, base+1, base-1, base, float64(100+i*13%700)))
	}
	vp, err := BuildVolumeProfile(window, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.TotalVolume <= 0 {
		t.Fatal("expected nonzero total volume")
	}
	var va float64
	for _, b := range vp.ValueArea {
		va += b.Volume
	}
	if va > vp.TotalVolume {
		t.Fatalf("value area volume %v exceeds total %v", va, vp.TotalVolume)
	}
	if len(vp.ValueArea) > maxValueAreaBins {
		t.Fatalf("value area has %d bins, cap is %d", len(vp.ValueArea), maxValueAreaBins)
	}
	if len(vp.ValueArea) < maxValueAreaBins && va < 0.7*vp.TotalVolume {
		t.Fatalf("uncapped value area covers %v of %v, want >= 70%%", va, vp.TotalVolume)
	}
	// Descending volume order.
	for i := 1; i < len(vp.ValueArea); i++ {
		if vp.ValueArea[i].Volume > vp.ValueArea[i-1].Volume {
			t.Fatalf("value area not sorted by volume at %d", i)
		}
	}
}

func TestBuildVolumeProfileFlatRange(t *testing.T) {
	// Degenerate min == max must not divide by zero, even with a single bin.
	window := []models.Candle{
		hourlyCandle(0, 100, 100, 100, 100, 300),
		hourlyCandle(1, 100, 100, 100, 100, 700),
	}
	vp, err := BuildVolumeProfile(window, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.POC == nil || vp.POC.Volume != 1000 {
		t.Fatalf("flat window must collapse to one bin carrying all volume, got %+v", vp.POC)
	}
	if vp.POC.PriceLow != 100 || vp.POC.PriceHigh != 100 {
		t.Fatalf("flat bin must sit at the shared price, got %+v", vp.POC)
	}
}
