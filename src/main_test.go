package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/marumaru-synth/marumaru/src/analyzer"
	"github.com/marumaru-synth/marumaru/src/audio"
)

func TestParseCommand(t *testing.T) {
	command, err := parseCommand("params %7B%22fmIndex%22%3A2%7D  load /tmp/a%20b.wt")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	expected := []string{"params", `{"fmIndex":2}`, "load", "/tmp/a b.wt"}
	if strings.Join(command, "|") != strings.Join(expected, "|") {
		t.Errorf("expected %v, but got: %v", expected, command)
	}
	if _, err := parseCommand("bad %zz"); err == nil {
		t.Errorf("expected error for bad escape")
	}
}

func TestReceiveCommands(t *testing.T) {
	commandCh := make(chan []string, 8)
	input := strings.NewReader("note_on 60\n\nset fm_index 2\n")
	if err := receiveCommands(context.Background(), input, commandCh); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	close(commandCh)
	var got []string
	for command := range commandCh {
		got = append(got, strings.Join(command, " "))
	}
	if strings.Join(got, ",") != "note_on 60,set fm_index 2" {
		t.Errorf("unexpected commands: %v", got)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProcessCommands(t *testing.T) {
	out := &syncBuffer{}
	s := newSession(out, audio.NewEngine(48000), analyzer.New())
	commandCh := make(chan []string, 8)
	commandCh <- []string{"set", "mix_mode", "fm"}
	commandCh <- []string{"bogus"}
	commandCh <- []string{"analyze"}
	commandCh <- []string{"note_on", "60"}
	close(commandCh)
	s.processCommands(commandCh)

	if s.engine.Params().MixMode() != audio.MixFM {
		t.Errorf("expected fm mix mode")
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "error ") {
		t.Errorf("expected one error report before analysis, but got: %q", out.String())
	}

	// the queued analysis has not run yet, later commands were not held up
	if len(s.analyses) != 1 {
		t.Fatalf("expected 1 queued analysis, but got: %d", len(s.analyses))
	}
	s.runAnalyses()
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "missing+path") {
		t.Errorf("expected analysis error report, but got: %q", out.String())
	}
}

func TestAnalysisQueueFull(t *testing.T) {
	out := &syncBuffer{}
	s := newSession(out, audio.NewEngine(48000), analyzer.New())
	commandCh := make(chan []string, analysisQueueSize+1)
	for i := 0; i < analysisQueueSize+1; i++ {
		commandCh <- []string{"analyze", "x.wav"}
	}
	close(commandCh)
	s.processCommands(commandCh)
	if len(s.analyses) != analysisQueueSize {
		t.Errorf("expected full queue, but got: %d", len(s.analyses))
	}
	if !strings.Contains(out.String(), "queue+is+full") {
		t.Errorf("expected queue full report, but got: %q", out.String())
	}
}
