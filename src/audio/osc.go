package audio

import (
	"github.com/marumaru-synth/marumaru/src/dsp"
	"github.com/marumaru-synth/marumaru/src/wavetable"
)

// ----- Play Mode ----- //

// PlayMode ...
type PlayMode int

const (
	Off PlayMode = iota
	Core
	Loop
	Release
)

func (m PlayMode) String() string {
	switch m {
	case Core:
		return "core"
	case Loop:
		return "loop"
	case Release:
		return "release"
	}
	return "off"
}

// ----- Oscillator Unit ----- //

// OscillatorUnit plays one section set.
// Core and Release advance one sample per step; Loop follows the frequency.
type OscillatorUnit struct {
	core     wavetable.Section
	loop     wavetable.Section
	release  wavetable.Section
	fs       float64
	position float64
	freq     float64
	playMode PlayMode
	level    float64
	ratio    float64
	modIndex float64
	fmPhase  float64 // 0 ~ 1
}

// NewOscillatorUnit ...
func NewOscillatorUnit(sampleRate int) *OscillatorUnit {
	return &OscillatorUnit{
		fs:    float64(sampleRate),
		freq:  440,
		level: 1,
		ratio: 1,
	}
}

// PlayMode ...
func (u *OscillatorUnit) PlayMode() PlayMode {
	return u.playMode
}

// load takes ownership of s and restarts the unit from Off.
func (u *OscillatorUnit) load(s *wavetable.Set) {
	u.core = s.Core
	u.loop = s.Loop
	u.release = s.Release
	u.playMode = Off
	u.position = 0
}

// Step advances the unit by one sample.
func (u *OscillatorUnit) Step(active bool) float64 {
	u.transition(active)
	out := u.render()
	u.advancePhase()
	return out
}

func (u *OscillatorUnit) transition(active bool) {
	switch {
	case active && u.playMode == Off:
		u.playMode = Core
		u.position = 0
	case !active && (u.playMode == Core || u.playMode == Loop):
		u.playMode = Release
		u.position = 0
	}
}

func (u *OscillatorUnit) render() float64 {
	switch u.playMode {
	case Core:
		n := u.core.Len()
		if n < 2 {
			u.playMode = Loop
			u.position = 0
			return 0
		}
		if u.position < float64(n-1) {
			out := dsp.SampleWrapped(u.core.Wave, u.position) * u.coreGain(u.position)
			u.position++
			return out
		}
		u.playMode = Loop
		u.position = 0
		return u.core.Wave[n-1] * u.coreGain(float64(n-1))
	case Loop:
		n := u.loop.Len()
		if n < 2 {
			u.playMode = Off
			return 0
		}
		out := dsp.SampleWrapped(u.loop.Wave, u.position)
		if len(u.loop.Gain) > 0 {
			out *= dsp.SampleWrapped(u.loop.Gain, u.position/float64(n)*float64(len(u.loop.Gain)))
		}
		u.advanceLoop()
		return out
	case Release:
		n := u.release.Len()
		if n < 2 {
			u.playMode = Off
			return 0
		}
		if u.position < float64(n-1) {
			out := dsp.SampleWrapped(u.release.Wave, u.position)
			if len(u.release.Gain) > 0 {
				out *= dsp.SampleClamped(u.release.Gain, u.position/float64(n)*float64(len(u.release.Gain)))
			}
			u.position++
			return out
		}
		u.playMode = Off
		u.position = 0
		return 0
	}
	return 0
}

// coreGain reads the Core gain at the nearest index.
func (u *OscillatorUnit) coreGain(position float64) float64 {
	i := int(position + 0.5)
	if i < len(u.core.Gain) {
		return u.core.Gain[i]
	}
	return 1
}

func (u *OscillatorUnit) advanceLoop() {
	n := float64(u.loop.Len())
	u.position += u.freq * n / u.fs
	if u.position >= n {
		u.position = dsp.PositiveMod(u.position, n)
	}
}

func (u *OscillatorUnit) advancePhase() {
	u.fmPhase = dsp.PositiveMod(u.fmPhase+u.freq*u.ratio/u.fs, 1)
}

// modulatorSample reads the Loop table at the free-running FM phase and advances it.
func (u *OscillatorUnit) modulatorSample() float64 {
	n := u.loop.Len()
	out := 0.0
	if n >= 2 {
		out = dsp.SampleWrapped(u.loop.Wave, u.fmPhase*float64(n)) * u.level
	}
	u.advancePhase()
	return out
}
