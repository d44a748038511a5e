package analyzer

import (
	"github.com/marumaru-synth/marumaru/src/wavetable"
)

// Mode is the analysis strategy chosen from periodicity.
type Mode int

const (
	ModeFrequency Mode = iota
	ModeHybrid
	ModeTime
)

func (m Mode) String() string {
	switch m {
	case ModeTime:
		return "time"
	case ModeHybrid:
		return "hybrid"
	}
	return "frequency"
}

// QualityMetrics ...
type QualityMetrics struct {
	Correlation      float64 // 0 ~ 1
	SpectralResidual float64 // >= 0
	NaNRatio         float64 // 0 ~ 1
}

var degenerateQuality = QualityMetrics{Correlation: 0, SpectralResidual: 1, NaNRatio: 0}

// Result is produced once per Analyze call and is not mutated afterwards.
// Its buffers belong to the caller until Release is called.
type Result struct {
	F0Curve     []float64
	Confidence  []float64
	Tables      [][]float64
	CoreWave    []float64
	LoopWave    []float64
	ReleaseWave []float64
	CoreGain    []float64
	LoopGain    []float64
	ReleaseGain []float64
	Quality     QualityMetrics
	Periodicity float64
	Mode        Mode

	released bool
}

// Sections copies the segments into a new wavetable.Set.
// It returns nil after Release.
func (r *Result) Sections() *wavetable.Set {
	if r.released {
		return nil
	}
	s := wavetable.NewSet(r.CoreWave, r.LoopWave, r.ReleaseWave, r.CoreGain, r.LoopGain, r.ReleaseGain)
	s.Periodicity = r.Periodicity
	s.Correlation = r.Quality.Correlation
	return s
}

// Release drops every buffer held by the result.
// It reports whether this call released them; later calls are no-ops.
func (r *Result) Release() bool {
	if r.released {
		return false
	}
	r.released = true
	r.F0Curve = nil
	r.Confidence = nil
	r.Tables = nil
	r.CoreWave = nil
	r.LoopWave = nil
	r.ReleaseWave = nil
	r.CoreGain = nil
	r.LoopGain = nil
	r.ReleaseGain = nil
	return true
}

// Released ...
func (r *Result) Released() bool {
	return r.released
}
