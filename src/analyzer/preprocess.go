package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

const (
	gateFFTSize = 1024
	gateHopSize = 256
)

// Normalize scales audio so that its RMS level equals targetDBFS.
// Near-silent input (RMS < 1e-6) is returned unchanged.
func Normalize(audio []float64, targetDBFS float64) []float64 {
	out := append([]float64(nil), audio...)
	measured := dsp.RMS(audio)
	if measured < 1e-6 {
		return out
	}
	gain := dsp.DBToGain(targetDBFS) / measured
	for i := range out {
		out[i] *= gain
	}
	return out
}

// RemoveDC applies y[n] = x[n] - x[n-1] + alpha*y[n-1].
func RemoveDC(audio []float64, alpha float64) []float64 {
	out := make([]float64, len(audio))
	prevX, prevY := 0.0, 0.0
	for i, x := range audio {
		y := x - prevX + alpha*prevY
		prevX = x
		prevY = y
		out[i] = y
	}
	return out
}

// SpectralGate zeroes every bin 0..N/2 quieter than threshold times the noise floor.
// The noise floor is taken from the frame with the least total power.
// Mirror bins are left untouched, so a gated component keeps half its
// amplitude in the real part of the inverse transform and a steady tone
// is never erased.
// Input shorter than one frame is returned unchanged.
func SpectralGate(audio []float64, threshold float64) []float64 {
	frames := dsp.STFT(audio, gateFFTSize, gateHopSize)
	if len(frames) == 0 {
		return append([]float64(nil), audio...)
	}
	quietest, minPower := 0, math.Inf(1)
	for i, frame := range frames {
		power := 0.0
		for _, c := range frame {
			power += real(c)*real(c) + imag(c)*imag(c)
		}
		if power < minPower {
			quietest, minPower = i, power
		}
	}
	half := gateFFTSize / 2
	floor := make([]float64, half+1)
	for k := range floor {
		floor[k] = cmplx.Abs(frames[quietest][k]) * threshold
	}
	for _, frame := range frames {
		for k := 0; k <= half; k++ {
			if cmplx.Abs(frame[k]) < floor[k] {
				frame[k] = 0
			}
		}
	}
	return dsp.ISTFT(frames, gateFFTSize, gateHopSize, len(audio))
}

// Preprocess normalizes loudness, removes DC and applies the spectral gate.
func (a *Analyzer) Preprocess(audio []float64) ([]float64, error) {
	if len(audio) == 0 {
		return nil, newError(KindInput, "Input audio is empty.")
	}
	out := Normalize(audio, a.config.TargetDBFS)
	out = RemoveDC(out, a.config.DCAlpha)
	if a.config.NoiseGate {
		a.logger.Println("[INFO] Applying spectral gate for noise reduction.")
		out = SpectralGate(out, a.config.GateThreshold)
	}
	return out, nil
}
