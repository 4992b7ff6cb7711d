package levels

import "sort"

// ClusterLevels merges nearby price levels into centroids. On sorted 1-D
// data, density clustering with min_samples=1 reduces to single-linkage
// chaining: walk the sorted values and keep extending the current cluster
// while the gap to the previous value is within eps, where
// eps = (max - min) * sensitivity. Each cluster collapses to its arithmetic
// mean. Inputs of length 0 or 1 are returned as-is (copied); output is
// ascending.
func ClusterLevels(values []float64, sensitivity float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if len(out) < 2 {
		return out
	}
	sort.Float64s(out)
	eps := (out[len(out)-1] - out[0]) * sensitivity

	centroids := make([]float64, 0, len(out))
	start := 0
	sum := out[0]
	for i := 1; i <= len(out); i++ {
		if i < len(out) && out[i]-out[i-1] <= eps {
			sum += out[i]
			continue
		}
		centroids = append(centroids, sum/float64(i-start))
		if i < len(out) {
			start = i
			sum = out[i]
		}
	}
	return centroids
}
