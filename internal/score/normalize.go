// Package score computes 0-100 value scores for listings by combining
// weighted, min-max normalized factors across a batch.
package score

// Normalize scales value to [0,1] against the min/max of population.
// With invert, lower values score higher. Populations with fewer than two
// elements, or with no variance, return the neutral midpoint 0.5 so
// listings are neither rewarded nor punished when there is nothing to
// compare against. The result is clamped because value need not be a
// member of population.
func Normalize(value float64, population []float64, invert bool) float64 {
	if len(population) < 2 {
		return 0.5
	}

	minVal, maxVal := population[0], population[0]
	for _, v := range population[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		return 0.5
	}

	normalized := (value - minVal) / (maxVal - minVal)
	if invert {
		normalized = 1 - normalized
	}

	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}
