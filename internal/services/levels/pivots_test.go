package levels

import (
	"errors"
	"math"
	"testing"

	"LevelScan/internal/domain/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPivotsStandard(t *testing.T) {
	window := []models.Candle{hourlyCandle(0, 150.5, 152, 150, 151, 1000)}
	ps, err := Pivots(window, models.PivotStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(ps.Pivot, 151) {
		t.Fatalf("pivot = %v, want 151", ps.Pivot)
	}
	if !almostEqual(ps.R1, 152) || !almostEqual(ps.S1, 150) {
		t.Fatalf("r1/s1 = %v/%v, want 152/150", ps.R1, ps.S1)
	}
	if !(ps.S1 < ps.Pivot && ps.Pivot < ps.R1) {
		t.Fatalf("standard pivots must satisfy s1 < pivot < r1: %+v", ps)
	}
}

func TestPivotsFormulas(t *testing.T) {
	h, l, c := 110.0, 90.0, 100.0
	p := (h + l + c) / 3
	rng := h - l
	window := []models.Candle{hourlyCandle(0, 95, h, l, c, 1000)}

	cases := []struct {
		method models.PivotMethod
		r1, s1 float64
		r3, s3 float64
	}{
		{models.PivotStandard, 2*p - l, 2*p - h, h + 2*(p-l), l - 2*(h-p)},
		{models.PivotFibonacci, p + 0.382*rng, p - 0.382*rng, p + rng, p - rng},
		{models.PivotCamarilla, c + rng*1.1/12, c - rng*1.1/12, c + rng*1.1/4, c - rng*1.1/4},
	}
	for _, tc := range cases {
		ps, err := Pivots(window, tc.method)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.method, err)
		}
		if !almostEqual(ps.R1, tc.r1) || !almostEqual(ps.S1, tc.s1) {
			t.Fatalf("%s: r1/s1 = %v/%v, want %v/%v", tc.method, ps.R1, ps.S1, tc.r1, tc.s1)
		}
		if !almostEqual(ps.R3, tc.r3) || !almostEqual(ps.S3, tc.s3) {
			t.Fatalf("%s: r3/s3 = %v/%v, want %v/%v", tc.method, ps.R3, ps.S3, tc.r3, tc.s3)
		}
	}
}

func TestPivotsEmptyWindow(t *testing.T) {
	ps, err := Pivots(nil, models.PivotStandard)
	if err != nil {
		t.Fatalf("empty window must not error, got %v", err)
	}
	if ps != nil {
		t.Fatalf("empty window must yield no pivot set, got %+v", ps)
	}
}

func TestPivotsUnknownMethod(t *testing.T) {
	window := []models.Candle{hourlyCandle(0, 100, 101, 99, 100, 1000)}
	_, err := Pivots(window, models.PivotMethod("woodie"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
