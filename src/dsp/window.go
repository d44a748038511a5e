package dsp

import (
	"math"
)

// Han ...
func Han(data []float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		data[i] = data[i] * HanAt(i, n)
	}
}

// HanAt returns the i-th coefficient of a periodic Hann window of length n.
func HanAt(i int, n int) float64 {
	x := float64(i) / float64(n)
	return 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
}

// HanWindow ...
func HanWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = HanAt(i, n)
	}
	return w
}
