package service

import "math"

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// percentOf returns part/whole*100 clamped to [0,100] and rounded, or 0 when whole is not positive.
func percentOf(part, whole float64) float64 {
	if whole <= 0 || math.IsNaN(part) || math.IsNaN(whole) {
		return 0
	}
	return round1(clamp(part/whole*100, 0, 100))
}

// growthPercent returns the relative change of current against base, or 0 when base is not positive.
func growthPercent(current, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return round1((current - base) / base * 100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
