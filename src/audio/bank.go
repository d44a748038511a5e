package audio

import (
	"github.com/marumaru-synth/marumaru/src/dsp"
	"github.com/marumaru-synth/marumaru/src/wavetable"
)

// MixMode ...
type MixMode int

const (
	MixAdditive MixMode = iota
	MixFM
)

func (m MixMode) String() string {
	if m == MixFM {
		return "fm"
	}
	return "additive"
}

func mixModeFromString(s string) (MixMode, bool) {
	switch s {
	case "additive", "add":
		return MixAdditive, true
	case "fm":
		return MixFM, true
	}
	return MixAdditive, false
}

const numUnits = 3

// OscillatorBank mixes three units.
// It is not safe for concurrent use; Engine serializes access.
type OscillatorBank struct {
	units   [numUnits]*OscillatorUnit
	mixMode MixMode
	fmMix   float64
}

// NewOscillatorBank ...
func NewOscillatorBank(sampleRate int) *OscillatorBank {
	b := &OscillatorBank{fmMix: 0.5}
	for i := range b.units {
		b.units[i] = NewOscillatorUnit(sampleRate)
	}
	return b
}

// Unit ...
func (b *OscillatorBank) Unit(i int) *OscillatorUnit {
	return b.units[i]
}

func (b *OscillatorBank) setFrequency(freq float64) {
	for _, u := range b.units {
		u.freq = freq
	}
}

func (b *OscillatorBank) load(sets [numUnits]*wavetable.Set) {
	for i, s := range sets {
		if s != nil {
			b.units[i].load(s)
		}
	}
}

func (b *OscillatorBank) apply(p *ParamBundle) {
	for i, u := range b.units {
		u.level = p.oscs[i].level
		u.ratio = p.oscs[i].ratio
	}
	b.units[1].modIndex = p.fmIndex
	b.mixMode = p.mixMode
	b.fmMix = p.blend
}

// Process renders one sample.
func (b *OscillatorBank) Process(active bool) float64 {
	if b.mixMode == MixFM {
		return b.processFM(active)
	}
	u0, u1, u2 := b.units[0], b.units[1], b.units[2]
	s0 := u0.Step(active)
	s1 := u1.Step(active)
	s2 := u2.Step(active)
	// explicit conversions keep each product rounded, never fused into the sum
	return (float64(s0*u0.level) + float64(s1*u1.level) + float64(s2*u2.level)) / numUnits
}

// processFM uses unit 1 as modulator and unit 0 as carrier.
// The modulation only applies while the carrier is looping;
// Core and Release pass through unmodulated.
func (b *OscillatorBank) processFM(active bool) float64 {
	carrier, modulator := b.units[0], b.units[1]
	modulation := modulator.modulatorSample() * modulator.modIndex

	carrier.transition(active)
	if carrier.playMode != Loop || carrier.loop.Len() < 2 {
		out := carrier.render()
		carrier.advancePhase()
		return out
	}
	n := float64(carrier.loop.Len())
	phase := dsp.PositiveMod(carrier.fmPhase+modulation, 1)
	out := dsp.SampleWrapped(carrier.loop.Wave, phase*n) * carrier.level
	carrier.advanceLoop()
	carrier.advancePhase()
	return out
}
