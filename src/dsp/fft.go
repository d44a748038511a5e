package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT ...
type FFT struct {
	n    int
	cfft *fourier.CmplxFFT
	rfft *fourier.FFT
}

// NewFFT ...
func NewFFT(n int) *FFT {
	return &FFT{
		n:    n,
		cfft: fourier.NewCmplxFFT(n),
		rfft: fourier.NewFFT(n),
	}
}

// Len ...
func (f *FFT) Len() int {
	return f.n
}

// Forward computes the complex spectrum of x. The result is not scaled.
func (f *FFT) Forward(dst []complex128, x []complex128) []complex128 {
	return f.cfft.Coefficients(dst, x)
}

// Inverse computes the complex sequence of spectrum. The result is not scaled,
// so Inverse(Forward(x)) equals x * n.
func (f *FFT) Inverse(dst []complex128, spectrum []complex128) []complex128 {
	return f.cfft.Sequence(dst, spectrum)
}

// ForwardReal computes the first n/2+1 coefficients of a real sequence.
func (f *FFT) ForwardReal(dst []complex128, x []float64) []complex128 {
	return f.rfft.Coefficients(dst, x)
}

// CalcAbs returns magnitudes of the first half of the spectrum of x.
func (f *FFT) CalcAbs(x []float64) []float64 {
	coeffs := f.rfft.Coefficients(nil, x)
	out := make([]float64, f.n/2)
	for i := range out {
		out[i] = cmplx.Abs(coeffs[i])
	}
	return out
}

// ToComplex ...
func ToComplex(dst []complex128, x []float64) []complex128 {
	if cap(dst) < len(x) {
		dst = make([]complex128, len(x))
	}
	dst = dst[:len(x)]
	for i, v := range x {
		dst[i] = complex(v, 0)
	}
	return dst
}

// NextPowerOfTwo returns the smallest power of two that is >= n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
