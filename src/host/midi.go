package host

import (
	"context"
	"io"
	"log"

	"gitlab.com/gomidi/rtmididrv"
)

// MidiSink receives raw MIDI messages.
type MidiSink interface {
	AddMidiEvent(data []byte)
}

// ListenToMidiIn forwards messages from the first MIDI input port.
// The channel is closed when ctx is done or no port can be opened.
func ListenToMidiIn(ctx context.Context, logger *log.Logger) <-chan []byte {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ch := make(chan []byte, 65536)
	go func() {
		defer close(ch)
		drv, err := rtmididrv.New()
		if err != nil {
			logger.Printf("failed to initialize MIDI driver: %v\n", err)
			return
		}
		defer func() {
			if err := drv.Close(); err != nil {
				logger.Printf("failed to close MIDI driver: %v\n", err)
			}
		}()
		ins, err := drv.Ins()
		if err != nil {
			logger.Printf("failed to get MIDI IN: %v\n", err)
			return
		}
		logger.Printf("MIDI IN: %v\n", ins)
		if len(ins) == 0 {
			logger.Println("[WARN] MIDI IN not found")
			return
		}
		in := ins[0]
		if err := in.Open(); err != nil {
			logger.Printf("failed to open MIDI IN: %v\n", err)
			return
		}
		logger.Println("opened " + in.String())
		defer func() {
			if err := in.Close(); err != nil {
				logger.Printf("failed to close MIDI IN: %v\n", err)
			}
		}()
		logger.Println("start listening MIDI IN...")
		if err := in.SetListener(func(data []byte, deltaMicroseconds int64) {
			msg := append([]byte(nil), data...)
			select {
			case ch <- msg:
			default:
				logger.Println("[WARN] MIDI buffer full")
			}
		}); err != nil {
			logger.Println("failed to set listener: " + err.Error())
			return
		}
		defer func() {
			logger.Println("stop listening MIDI IN...")
			if err := in.StopListening(); err != nil {
				logger.Printf("failed to stop listening: %v\n", err)
			}
		}()
		<-ctx.Done()
	}()
	return ch
}

// ForwardMidi feeds messages to sink until ch is closed or ctx is done.
func ForwardMidi(ctx context.Context, ch <-chan []byte, sink MidiSink) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			sink.AddMidiEvent(data)
		}
	}
}
