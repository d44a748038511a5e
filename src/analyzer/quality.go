package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

// Resynthesize plays table along the F0 curve for n samples.
// The phase only advances on voiced frames.
func Resynthesize(table []float64, f0Curve []float64, sampleRate int, n int) []float64 {
	out := make([]float64, n)
	if len(table) < 2 || len(f0Curve) == 0 {
		return out
	}
	phase := 0.0
	for i := range out {
		frame := i / f0HopSize
		if frame > len(f0Curve)-1 {
			frame = len(f0Curve) - 1
		}
		if f0 := f0Curve[frame]; f0 > 0 {
			phase += f0 / float64(sampleRate)
			if phase >= 1 {
				phase -= math.Floor(phase)
			}
		}
		out[i] = dsp.SampleWrapped(table, phase*float64(len(table)))
	}
	return out
}

// InspectQuality scores the main table against the original recording.
func InspectQuality(original []float64, tables [][]float64, f0Curve []float64, sampleRate int) QualityMetrics {
	if len(tables) == 0 || len(tables[0]) == 0 || len(original) == 0 {
		return degenerateQuality
	}
	resynth := Resynthesize(tables[0], f0Curve, sampleRate, len(original))
	return QualityMetrics{
		Correlation:      correlation(original, resynth),
		SpectralResidual: spectralResidual(original, resynth),
		NaNRatio:         nanRatio(f0Curve),
	}
}

func mean(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func correlation(x []float64, y []float64) float64 {
	mx, my := mean(x), mean(y)
	cov, vx, vy := 0.0, 0.0, 0.0
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	c := cov / (math.Sqrt(vx) * math.Sqrt(vy))
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	return math.Min(c, 1)
}

func spectralResidual(x []float64, y []float64) float64 {
	n := dsp.NextPowerOfTwo(len(x))
	if n < 2 {
		return 0
	}
	fft := dsp.NewFFT(n)
	px := make([]float64, n)
	py := make([]float64, n)
	copy(px, x)
	copy(py, y)
	sx := fft.ForwardReal(nil, px)
	sy := fft.ForwardReal(nil, py)
	residual, power := 0.0, 0.0
	for k := 0; k < n/2; k++ {
		ax, ay := cmplx.Abs(sx[k]), cmplx.Abs(sy[k])
		residual += (ax - ay) * (ax - ay)
		power += ax * ax
	}
	r := math.Sqrt(residual / power)
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return r
}

func nanRatio(f0Curve []float64) float64 {
	if len(f0Curve) == 0 {
		return 0
	}
	count := 0
	for _, f := range f0Curve {
		if math.IsNaN(f) {
			count++
		}
	}
	return float64(count) / float64(len(f0Curve))
}
