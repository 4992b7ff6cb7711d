package levels

import (
	"testing"
	"time"

	"LevelScan/internal/domain/models"
)

func hourlyCandle(i int, o, h, l, c, v float64) models.Candle {
	return models.Candle{
		Bucket: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		Symbol: "TEST",
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
		Volume: v,
	}
}

func risingWindow(n int, from, to float64) []models.Candle {
	out := make([]models.Candle, 0, n)
	step := (to - from) / float64(n-1)
	for i := 0; i < n; i++ {
		c := from + float64(i)*step
		out = append(out, hourlyCandle(i, c-0.2, c+1, c-1, c, 1000))
	}
	return out
}

func TestFractalsShortWindow(t *testing.T) {
	// Neighborhoods clip at the edges, so a window shorter than
	// left+right+1 still reports its extremes.
	window := risingWindow(8, 100, 110)
	sup, res := Fractals(window, 5, 5)
	if len(sup) != 1 || sup[0] != window[0].Low {
		t.Fatalf("expected first low as the only support fractal, got %v", sup)
	}
	if len(res) != 1 || res[0] != window[7].High {
		t.Fatalf("expected last high as the only resistance fractal, got %v", res)
	}
	if sup, res := Fractals(nil, 5, 5); sup != nil || res != nil {
		t.Fatalf("empty window must yield no fractals, got %v / %v", sup, res)
	}
}

func TestFractalsMonotonicRise(t *testing.T) {
	window := risingWindow(250, 100, 150)
	sup, res := Fractals(window, 5, 5)
	// Strictly rising highs: only the final bar is the max of its clipped
	// neighborhood.
	if len(res) != 1 {
		t.Fatalf("expected a single resistance fractal, got %d", len(res))
	}
	if res[0] != window[len(window)-1].High {
		t.Fatalf("resistance fractal %v != last high %v", res[0], window[len(window)-1].High)
	}
	if len(sup) != 1 || sup[0] != window[0].Low {
		t.Fatalf("expected first low as the only support fractal, got %v", sup)
	}
}

func TestFractalsSpikeLow(t *testing.T) {
	window := make([]models.Candle, 10)
	for i := range window {
		window[i] = hourlyCandle(i, 100, 101, 99, 100, 1e6)
	}
	window[7].Low = 80

	sup, _ := Fractals(window, 5, 5)
	found := false
	for _, v := range sup {
		if v == 80 {
			found = true
		}
	}
	if !found {
		t.Fatalf("support fractals %v missing spike low 80", sup)
	}
}

func TestFractalsTiesCount(t *testing.T) {
	window := make([]models.Candle, 11)
	for i := range window {
		window[i] = hourlyCandle(i, 100, 101, 99, 100, 1e6)
	}
	_, res := Fractals(window, 5, 5)
	// Every bar ties for the max high; all must be reported.
	if len(res) != 11 {
		t.Fatalf("expected 11 tied resistance fractals, got %d", len(res))
	}
}
