package analyzer

import (
	"math"
)

const (
	envelopeWindow = 512
	coreFadeLength = 10
)

// Segments are the Core/Loop/Release slices of one table and its envelope.
type Segments struct {
	CoreWave     []float64
	LoopWave     []float64
	ReleaseWave  []float64
	CoreGain     []float64
	LoopGain     []float64
	ReleaseGain  []float64
	CoreEnd      int
	ReleaseStart int
}

// AmplitudeEnvelope is the RMS of each consecutive window of audio.
// The last window may be shorter.
func AmplitudeEnvelope(audio []float64, window int) []float64 {
	env := make([]float64, 0, (len(audio)+window-1)/window)
	for start := 0; start < len(audio); start += window {
		end := start + window
		if end > len(audio) {
			end = len(audio)
		}
		sum := 0.0
		for _, v := range audio[start:end] {
			sum += v * v
		}
		env = append(env, math.Sqrt(sum/float64(end-start)))
	}
	return env
}

// stretchEnvelope resamples env to n points, mapping index i to i/n*len(env).
// An empty envelope becomes a flat gain of 1.
func stretchEnvelope(env []float64, n int) []float64 {
	out := make([]float64, n)
	if len(env) == 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i := range out {
		pos := float64(i) / float64(n) * float64(len(env))
		i0 := int(pos)
		if i0 > len(env)-1 {
			i0 = len(env) - 1
		}
		i1 := i0 + 1
		if i1 > len(env)-1 {
			i1 = len(env) - 1
		}
		frac := pos - float64(i0)
		out[i] = env[i0]*(1-frac) + env[i1]*frac
	}
	return out
}

// clampRatio maps NaN to 0.
func clampRatio(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return math.Max(0, math.Min(1, r))
}

// Segment splits table and the envelope of original at the two ratios.
// The boundaries always satisfy CoreEnd <= ReleaseStart, and the Core gain
// ramps up from exactly 0 over its first samples.
func Segment(table []float64, original []float64, coreEndRatio, releaseStartRatio float64) Segments {
	n := len(table)
	gain := stretchEnvelope(AmplitudeEnvelope(original, envelopeWindow), n)

	coreEnd := int(math.Round(float64(n) * clampRatio(coreEndRatio)))
	releaseStart := int(math.Round(float64(n) * clampRatio(releaseStartRatio)))
	if coreEnd > releaseStart {
		coreEnd, releaseStart = releaseStart, coreEnd
	}
	if releaseStart > n {
		releaseStart = n
	}
	if coreEnd > n {
		coreEnd = n
	}

	s := Segments{
		CoreWave:     append([]float64(nil), table[:coreEnd]...),
		LoopWave:     append([]float64(nil), table[coreEnd:releaseStart]...),
		ReleaseWave:  append([]float64(nil), table[releaseStart:]...),
		CoreGain:     append([]float64(nil), gain[:coreEnd]...),
		LoopGain:     append([]float64(nil), gain[coreEnd:releaseStart]...),
		ReleaseGain:  append([]float64(nil), gain[releaseStart:]...),
		CoreEnd:      coreEnd,
		ReleaseStart: releaseStart,
	}
	if len(s.CoreGain) > 0 {
		fade := len(s.CoreGain)
		if fade > coreFadeLength {
			fade = coreFadeLength
		}
		for i := 0; i < fade; i++ {
			s.CoreGain[i] *= float64(i) / float64(fade)
		}
		s.CoreGain[0] = 0
	}
	return s
}
