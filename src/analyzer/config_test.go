package analyzer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigApplyJSON(t *testing.T) {
	c := DefaultConfig()
	expectNoError(t, c.ApplyJSON([]byte(`{"noiseGate": false, "targetDbfs": -12}`)))
	expectEqual(t, c.NoiseGate, false)
	expectEqual(t, c.TargetDBFS, -12.0)
	expectEqual(t, c.DCAlpha, 0.995)
	if c.ApplyJSON([]byte(`{`)) == nil {
		t.Errorf("expected error for broken JSON")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	expectNoError(t, os.WriteFile(path, []byte(`{"gateThreshold": 2}`), 0644))
	c, err := LoadConfig(path)
	expectNoError(t, err)
	expectEqual(t, c.GateThreshold, 2.0)
	expectEqual(t, c.NoiseGate, true)
}

func TestErrorKinds(t *testing.T) {
	err := newError(KindDomainAnalysis, "Could not generate spectrogram from the audio.")
	expectEqual(t, errors.Is(err, ErrDomainAnalysis), true)
	expectEqual(t, errors.Is(err, ErrInput), false)
	var e *Error
	expectEqual(t, errors.As(err, &e), true)
	expectEqual(t, e.Kind, KindDomainAnalysis)
	expectEqual(t, e.Kind.String(), "domain analysis failure")
}
