package host

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"
)

type recorder struct {
	events [][]byte
}

func (r *recorder) AddMidiEvent(data []byte) {
	r.events = append(r.events, data)
}

func TestForwardMidi(t *testing.T) {
	ch := make(chan []byte, 4)
	ch <- []byte{0x90, 60, 100}
	ch <- []byte{0x80, 60, 0}
	close(ch)
	r := &recorder{}
	if err := ForwardMidi(context.Background(), ch, r); err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if len(r.events) != 2 {
		t.Fatalf("expected 2 events, but got: %d", len(r.events))
	}
	if r.events[1][0] != 0x80 {
		t.Errorf("expected note-off, but got: %v", r.events[1])
	}
}

func TestForwardMidiCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ForwardMidi(ctx, make(chan []byte), &recorder{}); err != nil {
		t.Errorf("expected no error, but got: %v", err)
	}
}

func TestContextReader(t *testing.T) {
	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	r := &contextReader{ctx: ctx, r: strings.NewReader("abcd"), logger: log.New(&logs, "", 0)}
	buf := make([]byte, 2)
	n, err := r.Read(buf)
	if n != 2 || err != nil {
		t.Fatalf("expected 2 bytes, but got: %d %v", n, err)
	}
	cancel()
	n, err = r.Read(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("expected EOF after cancel, but got: %d %v", n, err)
	}
	if !strings.Contains(logs.String(), "interrupted") {
		t.Errorf("expected interrupt log, but got: %q", logs.String())
	}
}
