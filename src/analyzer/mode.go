package analyzer

import (
	"math"
)

const (
	timeThreshold   = 0.6
	hybridThreshold = 0.35
)

// Periodicity is the mean confidence, or 0 for an empty or NaN curve.
func Periodicity(confidence []float64) float64 {
	if len(confidence) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range confidence {
		sum += c
	}
	p := sum / float64(len(confidence))
	if math.IsNaN(p) {
		return 0
	}
	return p
}

// SelectMode maps periodicity to an analysis mode.
// Both thresholds are exclusive: 0.6 selects Hybrid and 0.35 selects Frequency.
func SelectMode(periodicity float64) Mode {
	switch {
	case periodicity > timeThreshold:
		return ModeTime
	case periodicity > hybridThreshold:
		return ModeHybrid
	default:
		return ModeFrequency
	}
}

// averageF0 averages the voiced frames. It returns NaN when none are voiced.
func averageF0(f0Curve []float64) float64 {
	sum, count := 0.0, 0
	for _, f := range f0Curve {
		if f > 0 {
			sum += f
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

func validF0(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= 1
}
