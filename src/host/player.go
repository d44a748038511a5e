// Package host connects the engine to audio and MIDI devices.
package host

import (
	"context"
	"io"
	"log"

	"github.com/hajimehoshi/oto"
)

// Player streams PCM from a source to the default output device.
type Player struct {
	otoContext      *oto.Context
	source          io.Reader
	bufferSizeBytes int
	logger          *log.Logger
}

// NewPlayer opens the output device for interleaved 16-bit PCM.
func NewPlayer(source io.Reader, sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes int, logger *log.Logger) (*Player, error) {
	otoContext, err := oto.NewContext(sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Player{
		otoContext:      otoContext,
		source:          source,
		bufferSizeBytes: bufferSizeInBytes,
		logger:          logger,
	}, nil
}

// Start blocks until ctx is canceled.
func (p *Player) Start(ctx context.Context) error {
	player := p.otoContext.NewPlayer()
	defer func() {
		if err := player.Close(); err != nil {
			p.logger.Printf("error: %v", err)
		}
	}()
	r := &contextReader{ctx: ctx, r: p.source, logger: p.logger}
	if _, err := io.CopyBuffer(player, r, make([]byte, p.bufferSizeBytes)); err != nil {
		return err
	}
	p.logger.Println("Start() ended.")
	return nil
}

// Close ...
func (p *Player) Close() error {
	p.logger.Println("Closing Player...")
	return p.otoContext.Close()
}

// contextReader ends the stream once ctx is done.
type contextReader struct {
	ctx    context.Context
	r      io.Reader
	logger *log.Logger
}

func (c *contextReader) Read(buf []byte) (int, error) {
	select {
	case <-c.ctx.Done():
		c.logger.Println("Read() interrupted.")
		return 0, io.EOF
	default:
		return c.r.Read(buf)
	}
}
