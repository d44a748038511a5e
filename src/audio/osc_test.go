package audio

import (
	"testing"

	"github.com/marumaru-synth/marumaru/src/wavetable"
)

func TestUnitStateTransitions(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.load(wavetable.NewSet(filled(1, 4), sineCycle(8), filled(1, 4), nil, nil, nil))

	expectEqual(t, u.Step(false), 0.0)
	expectEqual(t, u.PlayMode(), Off)

	for i := 0; i < 3; i++ {
		u.Step(true)
		expectEqual(t, u.PlayMode(), Core)
	}
	u.Step(true)
	expectEqual(t, u.PlayMode(), Loop)
	for i := 0; i < 100; i++ {
		u.Step(true)
	}
	expectEqual(t, u.PlayMode(), Loop)

	for i := 0; i < 3; i++ {
		expectEqual(t, u.Step(false), 1.0)
		expectEqual(t, u.PlayMode(), Release)
	}
	expectEqual(t, u.Step(false), 0.0)
	expectEqual(t, u.PlayMode(), Off)
}

func TestUnitReleaseIgnoresRetrigger(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.load(wavetable.NewSet(filled(1, 2), sineCycle(8), filled(1, 8), nil, nil, nil))
	u.Step(true)
	u.Step(true)
	u.Step(false)
	expectEqual(t, u.PlayMode(), Release)
	u.Step(true)
	expectEqual(t, u.PlayMode(), Release)
}

func TestUnitShortSections(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.load(wavetable.NewSet(nil, nil, nil, nil, nil, nil))
	expectEqual(t, u.Step(true), 0.0)
	expectEqual(t, u.PlayMode(), Loop)
	expectEqual(t, u.Step(true), 0.0)
	expectEqual(t, u.PlayMode(), Off)

	u.load(wavetable.NewSet(nil, sineCycle(8), nil, nil, nil, nil))
	u.Step(true)
	u.Step(true)
	expectEqual(t, u.PlayMode(), Loop)
	u.Step(false)
	expectEqual(t, u.PlayMode(), Off)
}

func TestUnitCoreGain(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.load(wavetable.NewSet([]float64{1, 2, 3, 4}, sineCycle(8), nil, []float64{0, 0.5, 1, 1}, nil, nil))
	expected := []float64{0, 1, 3, 4}
	for i, e := range expected {
		actual := u.Step(true)
		if actual != e {
			t.Errorf("sample %d: expected %v, but got: %v", i, e, actual)
		}
	}
	expectEqual(t, u.PlayMode(), Loop)
}

func TestUnitLoopFollowsFrequency(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.freq = 1000 // one table sample per output sample
	u.load(loopOnly(ramp(48)))
	u.Step(true)
	for i := 0; i < 100; i++ {
		actual := u.Step(true)
		if actual != float64(i%48) {
			t.Fatalf("sample %d: expected %v, but got: %v", i, i%48, actual)
		}
	}

	u.freq = 2000
	u.load(loopOnly(ramp(48)))
	u.Step(true)
	for i := 0; i < 10; i++ {
		expectEqual(t, u.Step(true), float64(2*i))
	}
}

func TestUnitLoopGain(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.freq = 1000
	u.load(wavetable.NewSet(nil, filled(1, 48), nil, nil, []float64{0.5, 0.5, 0.5, 0.5}, nil))
	u.Step(true)
	for i := 0; i < 10; i++ {
		expectNearlyEqual(t, u.Step(true), 0.5)
	}
}

func TestUnitReleaseGainFade(t *testing.T) {
	u := NewOscillatorUnit(48000)
	u.load(wavetable.NewSet(nil, sineCycle(8), filled(1, 5), nil, nil, []float64{1, 0.5, 0}))
	u.Step(true)
	u.Step(true)
	out := make([]float64, 4)
	for i := range out {
		out[i] = u.Step(false)
	}
	expectNearlyEqual(t, out[0], 1)
	for i := 1; i < len(out); i++ {
		if out[i] > out[i-1] {
			t.Errorf("release should not increase: %v", out)
		}
	}
	u.Step(false)
	expectEqual(t, u.PlayMode(), Off)
}
