package main

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marumaru-synth/marumaru/src/analyzer"
	"github.com/marumaru-synth/marumaru/src/wavetable"
	"github.com/marumaru-synth/marumaru/src/wavfile"
)

func writeSine(t *testing.T, path string) {
	t.Helper()
	samples := make([]float64, 48000)
	for i := range samples {
		samples[i] = 0.7 * math.Sin(2*math.Pi*440*float64(i)/48000)
	}
	if err := wavfile.Write(path, samples, 48000); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
}


func TestOutputPath(t *testing.T) {
	if p := outputPath("/a/b/voice.wav", ""); p != filepath.Join("/a/b", "voice.wt") {
		t.Errorf("unexpected path %v", p)
	}
	if p := outputPath("/a/b/voice.wav", "/out"); p != filepath.Join("/out", "voice.wt") {
		t.Errorf("unexpected path %v", p)
	}
}

func TestAnalyzeAndRender(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sine.wav")
	writeSine(t, in)

	reports := analyzeFiles(analyzer.New(), []string{in, filepath.Join(dir, "missing.wav")}, "", 0.2, 0.8, 2)
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, but got: %d", len(reports))
	}
	ok := reports[0]
	if ok.err != nil {
		t.Fatalf("expected no error, but got: %v", ok.err)
	}
	if reports[1].err == nil {
		t.Errorf("expected error for missing file")
	}
	report := renderReport(ok)
	for _, s := range []string{"sine.wav", "time", "core"} {
		if !strings.Contains(report, s) {
			t.Errorf("expected %q in report: %s", s, report)
		}
	}
	if !strings.Contains(renderReport(reports[1]), "missing.wav") {
		t.Errorf("expected failed file in report")
	}

	set, err := wavetable.Load(ok.out)
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if set.Loop.Len() != len(ok.result.LoopWave) {
		t.Errorf("expected loop length %d, but got: %d", len(ok.result.LoopWave), set.Loop.Len())
	}

	cmd := &RenderCmd{
		Table:      ok.out,
		Out:        filepath.Join(dir, "note.wav"),
		Note:       69,
		Velocity:   127,
		Hold:       0.1,
		Tail:       0.05,
		MixMode:    "additive",
		FMIndex:    1,
		SampleRate: 48000,
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	samples, sampleRate, err := wavfile.Read(cmd.Out)
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if sampleRate != 48000 || len(samples) != 7200 {
		t.Errorf("unexpected output %d samples at %d", len(samples), sampleRate)
	}
	peak := 0.0
	for _, v := range samples[:4800] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak < 0.1 {
		t.Errorf("expected audible note, peak %v", peak)
	}
}

func TestRenderRejectsUnknownMixMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.wt")
	set := wavetable.NewSet(nil, []float64{0, 1, 0, -1}, nil, nil, nil, nil)
	if err := set.Save(path); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	cmd := &RenderCmd{Table: path, MixMode: "ring", SampleRate: 48000, Hold: 0.01}
	if _, err := cmd.render(); err == nil {
		t.Errorf("expected error for unknown mix mode")
	}
}
