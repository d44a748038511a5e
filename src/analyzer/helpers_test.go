package analyzer

import (
	"errors"
	"math"
	"testing"
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

func expectWithin(t *testing.T, actual, expected, tolerance float64) {
	t.Helper()
	if math.Abs(actual-expected) > tolerance {
		t.Errorf("expected %v (+-%v), but got: %v", expected, tolerance, actual)
	}
}

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

func expectErrorKind(t *testing.T, err error, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, but got: %v", target, err)
	}
}

func sine(freq float64, amp float64, sampleRate int, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return x
}

func constant(v float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = v
	}
	return x
}

func rms(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
