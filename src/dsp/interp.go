package dsp

import (
	"math"
)

// Lerp ...
func Lerp(a float64, b float64, t float64) float64 {
	return a*(1-t) + b*t
}

// PositiveMod ...
func PositiveMod(a float64, b float64) float64 {
	if b <= 0 {
		panic("b should be positive")
	}
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

// ResampleLinear stretches x to length n by linear interpolation.
// Both end points are preserved.
func ResampleLinear(x []float64, n int) []float64 {
	out := make([]float64, n)
	if len(x) == 0 || n == 0 {
		return out
	}
	if len(x) == 1 || n == 1 {
		for i := range out {
			out[i] = x[0]
		}
		return out
	}
	scale := float64(len(x)-1) / float64(n-1)
	for i := range out {
		pos := float64(i) * scale
		idx := int(pos)
		if idx >= len(x)-1 {
			out[i] = x[len(x)-1]
			continue
		}
		out[i] = Lerp(x[idx], x[idx+1], pos-float64(idx))
	}
	return out
}

// SampleClamped reads x at a fractional position, holding the last sample.
func SampleClamped(x []float64, pos float64) float64 {
	if len(x) == 0 {
		return 0
	}
	if pos <= 0 {
		return x[0]
	}
	idx := int(pos)
	if idx >= len(x)-1 {
		return x[len(x)-1]
	}
	return Lerp(x[idx], x[idx+1], pos-float64(idx))
}

// SampleWrapped reads x at a fractional position, wrapping at len(x).
func SampleWrapped(x []float64, pos float64) float64 {
	length := len(x)
	if length == 0 {
		return 0
	}
	pos = PositiveMod(pos, float64(length))
	idx := int(pos)
	if idx >= length {
		idx = length - 1
	}
	next := idx + 1
	if next >= length {
		next = 0
	}
	return Lerp(x[idx], x[next], pos-float64(idx))
}
