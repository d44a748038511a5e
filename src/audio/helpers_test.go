package audio

import (
	"math"
	"testing"

	"github.com/marumaru-synth/marumaru/src/wavetable"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNearlyEqual(t *testing.T, actual, expected float64) {
	t.Helper()
	if math.Abs(actual-expected) > 0.0001 {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

func expectError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error, but got nil")
	}
}

func sineCycle(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}
	return x
}

func ramp(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}

func filled(v float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = v
	}
	return x
}

// loopOnly has no Core and no Release.
func loopOnly(wave []float64) *wavetable.Set {
	return wavetable.NewSet(nil, wave, nil, nil, nil, nil)
}
