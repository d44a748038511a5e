package analyzer

import (
	"math"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

// AnalyzeTimeDomain averages pitch-synchronous cycles into one table
// whose length is one period of the average F0.
func (a *Analyzer) AnalyzeTimeDomain(audio []float64, sampleRate int, f0Curve []float64) ([][]float64, error) {
	a.logger.Println("[INFO] Time domain analysis started.")
	avg := averageF0(f0Curve)
	if !validF0(avg) {
		return nil, newError(KindPitchEstimation, "Could not determine a valid average F0 from the curve.")
	}
	sr := float64(sampleRate)
	targetLen := int(math.Round(sr / avg))
	if targetLen < 2 {
		return nil, newError(KindPitchEstimation, "Average period is too short to process.")
	}
	table := make([]float64, targetLen)
	cycles := 0
	pos := 0.0
	for int(pos) < len(audio) {
		frame := int(math.Floor(pos / f0HopSize))
		f0 := avg
		if frame < len(f0Curve) {
			f0 = f0Curve[frame]
		}
		period := float64(targetLen)
		if f0 > 0 {
			period = sr / f0
		}
		start := int(math.Round(pos))
		end := int(math.Round(pos + period))
		if end > len(audio) {
			break
		}
		cycle := dsp.ResampleLinear(audio[start:end], targetLen)
		for i, v := range cycle {
			table[i] += v
		}
		cycles++
		pos += period
	}
	if cycles == 0 {
		return nil, newError(KindSynthesisEmpty, "No cycles could be extracted from the audio.")
	}
	for i := range table {
		table[i] /= float64(cycles)
	}
	dsp.PeakNormalize(table)
	a.logger.Printf("[INFO] Time domain analysis finished. Averaged %d cycles.\n", cycles)
	return [][]float64{table}, nil
}
