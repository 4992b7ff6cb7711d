package levels

import (
	"reflect"
	"testing"
)

func TestClusterLevelsSmallInputs(t *testing.T) {
	if got := ClusterLevels(nil, 0.02); len(got) != 0 {
		t.Fatalf("nil input: got %v", got)
	}
	if got := ClusterLevels([]float64{42}, 0.02); !reflect.DeepEqual(got, []float64{42}) {
		t.Fatalf("single input: got %v", got)
	}
}

func TestClusterLevelsMergesNeighbors(t *testing.T) {
	// Range 100, sensitivity 0.02 -> eps 2. The first three chain together.
	values := []float64{100, 101, 102.5, 150, 200}
	got := ClusterLevels(values, 0.02)
	want := []float64{(100 + 101 + 102.5) / 3, 150, 200}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestClusterLevelsAscending(t *testing.T) {
	got := ClusterLevels([]float64{200, 100, 150, 101, 149}, 0.01)
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("centroids not ascending: %v", got)
		}
	}
}

func TestClusterLevelsIdempotent(t *testing.T) {
	values := []float64{99.5, 100, 100.4, 105, 105.2, 120, 139, 140, 141}
	once := ClusterLevels(values, 0.02)
	twice := ClusterLevels(once, 0.02)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-clustering changed centroids: %v -> %v", once, twice)
	}
}

func TestClusterLevelsIdenticalValues(t *testing.T) {
	// Zero range means eps 0; equal values still merge into one centroid.
	got := ClusterLevels([]float64{100, 100, 100}, 0.02)
	if !reflect.DeepEqual(got, []float64{100}) {
		t.Fatalf("got %v, want [100]", got)
	}
}
