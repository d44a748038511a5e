package analyzer

import (
	"math"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

// Crossover returns the band split frequency for an average F0.
func Crossover(avgF0 float64) float64 {
	return math.Max(800, math.Min(3000, avgF0*5))
}

// AnalyzeHybrid runs the time domain analysis on the low band and the
// frequency domain analysis on the high band, then sums both tables.
func (a *Analyzer) AnalyzeHybrid(audio []float64, sampleRate int, f0Curve []float64) ([][]float64, error) {
	a.logger.Println("[INFO] Hybrid analysis started.")
	avg := averageF0(f0Curve)
	if !validF0(avg) {
		return nil, newError(KindPitchEstimation, "Cannot perform hybrid analysis without a valid F0 curve.")
	}
	crossover := Crossover(avg)
	a.logger.Printf("[INFO] Crossover frequency set to: %.2f Hz\n", crossover)
	low, high := dsp.SplitBands(audio, float64(sampleRate), crossover)

	lowTables, err := a.AnalyzeTimeDomain(low, sampleRate, f0Curve)
	if err != nil {
		return nil, err
	}
	highTables, err := a.AnalyzeFreqDomain(high)
	if err != nil {
		return nil, err
	}
	lowTable, highTable := lowTables[0], highTables[0]
	n := len(lowTable)
	if len(highTable) > n {
		n = len(highTable)
	}
	table := make([]float64, n)
	for i := range table {
		if i < len(lowTable) {
			table[i] += lowTable[i]
		}
		if i < len(highTable) {
			table[i] += highTable[i]
		}
	}
	dsp.PeakNormalize(table)
	a.logger.Println("[INFO] Hybrid analysis finished.")
	return [][]float64{table}, nil
}
