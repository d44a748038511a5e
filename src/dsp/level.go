package dsp

import (
	"math"
)

// RMS ...
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// Peak returns the largest absolute sample.
func Peak(x []float64) float64 {
	peak := 0.0
	for _, v := range x {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return peak
}

// PeakNormalize scales x in place so that its peak is 1.0.
// Tables quieter than 1e-6 are left alone.
func PeakNormalize(x []float64) {
	peak := Peak(x)
	if peak < 1e-6 {
		return
	}
	for i := range x {
		x[i] /= peak
	}
}

// DBToGain ...
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
