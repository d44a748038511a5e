package analyzer

import (
	"math"

	"github.com/marumaru-synth/marumaru/src/dsp"
)

// ApplyPitchSync re-reads each table at the local speed f0/avgF0 so that
// residual pitch drift along the F0 curve is cancelled.
// Tables are returned unchanged when the curve has no valid average.
func (a *Analyzer) ApplyPitchSync(tables [][]float64, f0Curve []float64) [][]float64 {
	avg := averageF0(f0Curve)
	if !validF0(avg) {
		a.logger.Println("[WARN] Invalid F0 curve for pitch sync. Skipping.")
		return tables
	}
	out := make([][]float64, len(tables))
	for t, table := range tables {
		n := len(table)
		synced := make([]float64, n)
		pos := 0.0
		for i := range synced {
			frame := int(math.Round(float64(i) / float64(n) * float64(len(f0Curve))))
			speed := 1.0
			if frame < len(f0Curve) && f0Curve[frame] > 0 {
				speed = f0Curve[frame] / avg
			}
			synced[i] = dsp.SampleWrapped(table, pos)
			pos += speed
			if pos >= float64(n) {
				pos -= float64(n)
			}
		}
		out[t] = synced
	}
	return out
}
