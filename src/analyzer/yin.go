package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Pitch is a single-frame estimate. Clarity is in [0, 1].
type Pitch struct {
	Frequency float64
	Clarity   float64
}

// PitchDetector estimates the pitch of one frame.
// ok is false when the frame carries no usable pitch.
type PitchDetector interface {
	Detect(frame []float64, sampleRate int) (p Pitch, ok bool)
}

// YIN is a PitchDetector based on the cumulative mean normalized difference.
type YIN struct {
	PowerThreshold float64 // frames with less total power are rejected
	Threshold      float64 // absolute threshold on the normalized difference
}

// NewYIN ...
func NewYIN() *YIN {
	return &YIN{PowerThreshold: 0.1, Threshold: 0.1}
}

var _ PitchDetector = (*YIN)(nil)

// Detect ...
func (y *YIN) Detect(frame []float64, sampleRate int) (Pitch, bool) {
	n := len(frame)
	w := n / 2
	if w < 4 {
		return Pitch{}, false
	}
	power := 0.0
	for _, v := range frame {
		power += v * v
	}
	if power < y.PowerThreshold {
		return Pitch{}, false
	}
	d := cumulativeMeanNormalize(difference(frame, w))
	tau := -1
	for t := 2; t < w; t++ {
		if d[t] < y.Threshold {
			for t+1 < w && d[t+1] < d[t] {
				t++
			}
			tau = t
			break
		}
	}
	if tau < 0 {
		tau = 2
		for t := 3; t < w; t++ {
			if d[t] < d[tau] {
				tau = t
			}
		}
	}
	period := float64(tau)
	if tau+1 < w {
		s0, s1, s2 := d[tau-1], d[tau], d[tau+1]
		denom := s0 - 2*s1 + s2
		if denom != 0 {
			shift := (s0 - s2) / (2 * denom)
			if math.Abs(shift) < 1 {
				period += shift
			}
		}
	}
	if period <= 0 {
		return Pitch{}, false
	}
	clarity := math.Max(0, math.Min(1, 1-d[tau]))
	return Pitch{Frequency: float64(sampleRate) / period, Clarity: clarity}, true
}

// difference computes d(tau) = sum_{j<w} (x[j] - x[j+tau])^2 for tau < w.
// The cross term comes from an FFT correlation of the first w samples against the frame.
func difference(x []float64, w int) []float64 {
	n := len(x)
	head := make([]float64, n)
	copy(head, x[:w])
	a := fft.FFTReal(head)
	b := fft.FFTReal(x)
	for i := range a {
		a[i] = cmplx.Conj(a[i]) * b[i]
	}
	r := fft.IFFT(a)

	e0 := 0.0
	for j := 0; j < w; j++ {
		e0 += x[j] * x[j]
	}
	d := make([]float64, w)
	eTau := e0
	for tau := 0; tau < w; tau++ {
		if tau > 0 {
			eTau += x[tau+w-1]*x[tau+w-1] - x[tau-1]*x[tau-1]
		}
		d[tau] = math.Max(0, e0+eTau-2*real(r[tau]))
	}
	return d
}

func cumulativeMeanNormalize(d []float64) []float64 {
	out := make([]float64, len(d))
	out[0] = 1
	sum := 0.0
	for tau := 1; tau < len(d); tau++ {
		sum += d[tau]
		if sum == 0 {
			out[tau] = 1
			continue
		}
		out[tau] = d[tau] * float64(tau) / sum
	}
	return out
}
