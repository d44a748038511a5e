package dsp

import (
	"math"
)

// ButterworthQ ...
const ButterworthQ = 0.707

// BiquadLowpass returns feedforward and feedback coefficients.
// fc is normalized by the sample rate.
func BiquadLowpass(fc float64, q float64) ([]float64, []float64) {
	// from RBJ's cookbook
	w0 := 2 * math.Pi * fc
	alpha := math.Sin(w0) / (2 * q)
	b0 := (1 - math.Cos(w0)) / 2
	b1 := (1 - math.Cos(w0))
	b2 := (1 - math.Cos(w0)) / 2
	a0 := 1 + alpha
	a1 := -2 * math.Cos(w0)
	a2 := 1 - alpha
	return []float64{b0 / a0, b1 / a0, b2 / a0}, []float64{a1 / a0, a2 / a0}
}

// ProcessFilter runs a direct form II filter over in.
func ProcessFilter(in []float64, out []float64, a []float64, b []float64) {
	past := make([]float64, int(math.Max(float64(len(a)-1), float64(len(b)))))
	for i := 0; i < len(in); i++ {
		out[i] = processFilterEach(in[i], a, b, past)
	}
}

func processFilterEach(in float64, a []float64, b []float64, past []float64) float64 {
	// apply b
	for j := 0; j < len(b); j++ {
		in -= past[j] * b[j]
	}
	// apply a
	o := in * a[0]
	for j := 1; j < len(a); j++ {
		o += past[j-1] * a[j]
	}
	// unshift past
	for j := len(past) - 2; j >= 0; j-- {
		past[j+1] = past[j]
	}
	if len(past) > 0 {
		past[0] = in
	}
	return o
}

// SplitBands splits x into low and high bands at crossover Hz.
// The high band is the input minus the low band.
func SplitBands(x []float64, sampleRate float64, crossover float64) ([]float64, []float64) {
	a, b := BiquadLowpass(crossover/sampleRate, ButterworthQ)
	low := make([]float64, len(x))
	ProcessFilter(x, low, a, b)
	high := make([]float64, len(x))
	for i := range x {
		high[i] = x[i] - low[i]
	}
	return low, high
}
