package analyzer

import (
	"testing"
)

func TestYINSine(t *testing.T) {
	p, ok := NewYIN().Detect(sine(440, 0.5, 48000, f0FrameSize), 48000)
	expectEqual(t, ok, true)
	expectWithin(t, p.Frequency, 440, 1)
	if p.Clarity < 0.9 {
		t.Errorf("expected high clarity, but got: %v", p.Clarity)
	}
}

func TestYINSilence(t *testing.T) {
	_, ok := NewYIN().Detect(make([]float64, f0FrameSize), 48000)
	expectEqual(t, ok, false)
}

func TestCepstrumSilence(t *testing.T) {
	f0, c := newCepstrum(f0FrameSize).estimate(make([]float64, f0FrameSize), 48000)
	expectEqual(t, f0, 0.0)
	expectEqual(t, c, 0.0)
}

func TestEstimateF0Sine(t *testing.T) {
	f0, confidence, err := New().EstimateF0(sine(440, 0.5, 48000, 48000), 48000)
	expectNoError(t, err)
	expectEqual(t, len(f0), (48000-f0FrameSize)/f0HopSize+1)
	expectEqual(t, len(confidence), len(f0))
	for i := range f0 {
		expectWithin(t, f0[i], 440, 2)
		if confidence[i] < 0 || confidence[i] > 1 {
			t.Errorf("confidence out of range: %v", confidence[i])
		}
	}
	if Periodicity(confidence) <= timeThreshold {
		t.Errorf("expected periodicity above %v, but got: %v", timeThreshold, Periodicity(confidence))
	}
}

func TestEstimateF0TooShort(t *testing.T) {
	_, _, err := New().EstimateF0(make([]float64, f0FrameSize-1), 48000)
	expectErrorKind(t, err, ErrInput)
	expectEqual(t, err.Error(), "Audio data is too short for F0 estimation.")
}

func TestEstimateF0Silence(t *testing.T) {
	f0, confidence, err := New().EstimateF0(make([]float64, 3*f0FrameSize), 48000)
	expectNoError(t, err)
	for i := range f0 {
		expectEqual(t, f0[i], 0.0)
		expectEqual(t, confidence[i], 0.0)
	}
}

type fixedDetector struct {
	pitch Pitch
	ok    bool
}

func (d *fixedDetector) Detect(frame []float64, sampleRate int) (Pitch, bool) {
	return d.pitch, d.ok
}

func TestEstimateF0TrustsClearDetector(t *testing.T) {
	a := New(WithPitchDetector(&fixedDetector{pitch: Pitch{Frequency: 123, Clarity: 0.8}, ok: true}))
	f0, confidence, err := a.EstimateF0(sine(440, 0.5, 48000, f0FrameSize), 48000)
	expectNoError(t, err)
	expectEqual(t, f0[0], 123.0)
	expectEqual(t, confidence[0], 0.8)
}

func TestEstimateF0FallsBackToCepstrum(t *testing.T) {
	a := New(WithPitchDetector(&fixedDetector{ok: false}))
	f0, _, err := a.EstimateF0(make([]float64, f0FrameSize), 48000)
	expectNoError(t, err)
	expectEqual(t, f0[0], 0.0)
}

func TestFillF0GapsLinear(t *testing.T) {
	curve := []float64{100, 0, 0, 0, 200}
	FillF0Gaps(curve)
	expectNearlyEqual(t, curve[1], 125)
	expectNearlyEqual(t, curve[2], 150)
	expectNearlyEqual(t, curve[3], 175)
}

func TestFillF0GapsSpline(t *testing.T) {
	curve := []float64{100, 100, 0, 0, 100, 100}
	FillF0Gaps(curve)
	expectNearlyEqual(t, curve[2], 100)
	expectNearlyEqual(t, curve[3], 100)

	curve = []float64{90, 100, 0, 120, 130}
	FillF0Gaps(curve)
	expectNearlyEqual(t, curve[2], 110)
}

func TestFillF0GapsUnbounded(t *testing.T) {
	curve := []float64{0, 0, 100, 0, 110, 0, 0}
	FillF0Gaps(curve)
	expectEqual(t, curve[0], 0.0)
	expectEqual(t, curve[1], 0.0)
	expectNearlyEqual(t, curve[3], 105)
	expectEqual(t, curve[5], 0.0)
	expectEqual(t, curve[6], 0.0)
}

func TestFillF0GapsNeverNegative(t *testing.T) {
	curve := []float64{10000, 10, 0, 0, 10, 10}
	FillF0Gaps(curve)
	for i, f := range curve {
		if f <= 0 {
			t.Errorf("expected positive F0 at %d, but got: %v", i, f)
		}
	}
}
