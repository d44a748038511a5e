package wavetable

import (
	"bytes"
	"path/filepath"
	"testing"
)

func expectEqual(t *testing.T, actual, expected interface{}) {
	t.Helper()
	if actual != expected {
		t.Errorf("expected %v, but got: %v", expected, actual)
	}
}

func expectNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}

func testSet() *Set {
	s := NewSet(
		[]float64{0, 0.5},
		[]float64{1, -1, 0.25},
		[]float64{0.1},
		[]float64{0, 0.2},
		[]float64{0.3, 0.3, 0.3},
		nil,
	)
	s.Periodicity = 0.9
	s.Correlation = 0.75
	return s
}

func TestNewSetCopies(t *testing.T) {
	wave := []float64{1, 2, 3}
	s := NewSet(nil, wave, nil, nil, nil, nil)
	wave[0] = 100
	expectEqual(t, s.Loop.Wave[0], 1.0)
	expectEqual(t, s.Loop.Crossfade, true)
	expectEqual(t, s.Core.Crossfade, false)
}

func TestWriteAndRead(t *testing.T) {
	s := testSet()
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	expectNoError(t, err)
	expectEqual(t, n, int64(buf.Len()))

	loaded, err := Read(&buf)
	expectNoError(t, err)
	expectEqual(t, loaded.Core.Len(), 2)
	expectEqual(t, loaded.Loop.Len(), 3)
	expectEqual(t, loaded.Release.Len(), 1)
	expectEqual(t, len(loaded.Release.Gain), 0)
	expectEqual(t, loaded.Loop.Wave[2], 0.25)
	expectEqual(t, loaded.Core.Gain[1], 0.2)
	expectEqual(t, loaded.Periodicity, 0.9)
	expectEqual(t, loaded.Correlation, 0.75)
	expectEqual(t, loaded.Loop.Crossfade, true)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.wt")
	expectNoError(t, testSet().Save(path))
	// saving twice must not leave stale bytes behind
	expectNoError(t, NewSet(nil, []float64{1, 2}, nil, nil, nil, nil).Save(path))
	loaded, err := Load(path)
	expectNoError(t, err)
	expectEqual(t, loaded.Loop.Len(), 2)
	expectEqual(t, loaded.Core.Len(), 0)
}

func TestReadInvalid(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte{0, 0, 0, 3}))
	if err == nil {
		t.Errorf("expected error for wrong table count")
	}
	_, err = Read(bytes.NewReader([]byte{0, 0}))
	if err == nil {
		t.Errorf("expected error for truncated input")
	}
}
