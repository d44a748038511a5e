package analyzer

import (
	"math"
	"math/cmplx"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

const (
	freqFFTSize = 2048
	freqHopSize = 512
)

// AnalyzeFreqDomain builds one table from the average magnitude spectrum
// with every bin locked to a phase of -90 degrees.
func (a *Analyzer) AnalyzeFreqDomain(audio []float64) ([][]float64, error) {
	a.logger.Println("[INFO] Frequency domain analysis started.")
	if len(audio) < freqFFTSize {
		return nil, newError(KindDomainAnalysis, "Audio data is too short for frequency domain analysis.")
	}
	frames := dsp.STFT(audio, freqFFTSize, freqHopSize)
	if len(frames) == 0 {
		return nil, newError(KindDomainAnalysis, "Could not generate spectrogram from the audio.")
	}
	half := freqFFTSize / 2
	magnitudes := make([]float64, half+1)
	for _, frame := range frames {
		for k := range magnitudes {
			magnitudes[k] += cmplx.Abs(frame[k])
		}
	}
	spectrum := make([]complex128, freqFFTSize)
	for k, m := range magnitudes {
		c := cmplx.Rect(m/float64(len(frames)), -math.Pi/2)
		spectrum[k] = c
		if k > 0 && k < half {
			spectrum[freqFFTSize-k] = cmplx.Conj(c)
		}
	}
	seq := dsp.NewFFT(freqFFTSize).Inverse(nil, spectrum)
	table := make([]float64, freqFFTSize)
	for i, c := range seq {
		table[i] = real(c) / freqFFTSize
	}
	dsp.PeakNormalize(table)
	a.logger.Printf("[INFO] Frequency domain analysis finished. Averaged %d frames.\n", len(frames))
	return [][]float64{table}, nil
}
