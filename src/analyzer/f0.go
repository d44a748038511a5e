package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

const (
	f0FrameSize = 2048
	f0HopSize   = 512

	acceptClarity = 0.7
	minCepstrumHz = 80.0
	maxCepstrumHz = 1000.0
)

// EstimateF0 returns per-hop F0 and confidence curves.
// Each frame trusts the pitch detector above a clarity of 0.7,
// and otherwise takes whichever of detector and cepstrum is more confident.
func (a *Analyzer) EstimateF0(audio []float64, sampleRate int) ([]float64, []float64, error) {
	if len(audio) < f0FrameSize {
		return nil, nil, newError(KindInput, "Audio data is too short for F0 estimation.")
	}
	a.logger.Println("[INFO] F0 estimation started.")
	numFrames := (len(audio)-f0FrameSize)/f0HopSize + 1
	f0Curve := make([]float64, numFrames)
	confidence := make([]float64, numFrames)
	cep := newCepstrum(f0FrameSize)
	for i := 0; i < numFrames; i++ {
		frame := audio[i*f0HopSize : i*f0HopSize+f0FrameSize]
		p, ok := a.detector.Detect(frame, sampleRate)
		if !ok || p.Clarity <= acceptClarity {
			f0, c := cep.estimate(frame, sampleRate)
			if !ok || c > p.Clarity {
				p = Pitch{Frequency: f0, Clarity: c}
			}
		}
		if p.Frequency < 0 || math.IsNaN(p.Frequency) || math.IsInf(p.Frequency, 0) {
			p = Pitch{}
		}
		f0Curve[i] = p.Frequency
		confidence[i] = math.Max(0, math.Min(1, p.Clarity))
	}
	FillF0Gaps(f0Curve)
	a.logger.Printf("[INFO] F0 estimation finished. Generated %d frames.\n", numFrames)
	return f0Curve, confidence, nil
}

type cepstrum struct {
	fft    *dsp.FFT
	window []float64
	buf    []complex128
	out    []complex128
}

func newCepstrum(n int) *cepstrum {
	return &cepstrum{
		fft:    dsp.NewFFT(n),
		window: dsp.HanWindow(n),
		buf:    make([]complex128, n),
		out:    make([]complex128, n),
	}
}

// estimate returns the F0 and confidence of the strongest real-cepstrum peak
// in the 80 - 1000 Hz period range. Silent frames yield (0, 0).
func (c *cepstrum) estimate(frame []float64, sampleRate int) (float64, float64) {
	n := c.fft.Len()
	energy := 0.0
	for i := 0; i < n; i++ {
		v := frame[i] * c.window[i]
		energy += v * v
		c.buf[i] = complex(v, 0)
	}
	if energy < 1e-20 {
		return 0, 0
	}
	c.out = c.fft.Forward(c.out, c.buf)
	for i, x := range c.out {
		power := cmplx.Abs(x / complex(float64(n), 0))
		c.buf[i] = complex(math.Log10(power*power+1e-12), 0)
	}
	c.out = c.fft.Inverse(c.out, c.buf)

	sr := float64(sampleRate)
	start := int(math.Max(math.Floor(sr/maxCepstrumHz), 1))
	end := int(math.Min(math.Ceil(sr/minCepstrumHz), float64(n/2)))
	if start >= end {
		return 0, 0
	}
	peakIndex := start
	for i := start + 1; i < end; i++ {
		if real(c.out[i]) > real(c.out[peakIndex]) {
			peakIndex = i
		}
	}
	peak := real(c.out[peakIndex])
	if peak <= 0 {
		return 0, 0
	}
	return sr / float64(peakIndex), math.Min(1, peak/float64(n))
}

// FillF0Gaps reconstructs runs of zero frames that have voiced frames on both sides.
// A Catmull-Rom spline is used when two voiced context points exist on each side,
// otherwise the boundary values are joined linearly. Leading and trailing runs stay zero.
func FillF0Gaps(curve []float64) {
	n := len(curve)
	start := -1
	for i := 0; i < n; i++ {
		if curve[i] == 0 {
			if start < 0 {
				start = i
			}
			continue
		}
		if start < 0 {
			continue
		}
		if start > 0 {
			fillGap(curve, start, i)
		}
		start = -1
	}
}

// fillGap fills curve[start:end]; curve[start-1] and curve[end] are voiced.
func fillGap(curve []float64, start int, end int) {
	i1, i2 := start-1, end
	p1, p2 := curve[i1], curve[i2]
	spline := start >= 2 && end+1 < len(curve) && curve[start-2] > 0 && curve[end+1] > 0
	span := float64(i2 - i1)
	for j := start; j < end; j++ {
		t := float64(j-i1) / span
		linear := dsp.Lerp(p1, p2, t)
		if !spline {
			curve[j] = linear
			continue
		}
		v := catmullRom(curve[start-2], p1, p2, curve[end+1], t)
		if v <= 0 {
			v = linear
		}
		curve[j] = v
	}
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}
