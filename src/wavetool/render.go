package main

import (
	"strconv"

	"github.com/marumaru-synth/marumaru/src/audio"
	"github.com/marumaru-synth/marumaru/src/wavfile"
)

// RenderCmd ...
type RenderCmd struct {
	Table      string  `arg:"" type:"existingfile" help:"Section file (.wt)."`
	Out        string  `arg:"" type:"path" help:"Output WAV file."`
	Note       int     `default:"60" help:"MIDI note number."`
	Velocity   int     `default:"127" help:"MIDI velocity."`
	Hold       float64 `default:"1.0" help:"Seconds the note is held."`
	Tail       float64 `default:"0.5" help:"Seconds rendered after note off."`
	MixMode    string  `default:"additive" enum:"additive,fm" help:"Bank mix mode."`
	FMIndex    float64 `default:"1.0" name:"fm-index" help:"FM modulation index."`
	SampleRate int     `default:"48000" help:"Output sample rate."`
}

// Run ...
func (c *RenderCmd) Run() error {
	samples, err := c.render()
	if err != nil {
		return err
	}
	return wavfile.Write(c.Out, samples, c.SampleRate)
}

func (c *RenderCmd) render() ([]float64, error) {
	e := audio.NewEngine(c.SampleRate)
	if err := e.LoadFile(c.Table); err != nil {
		return nil, err
	}
	if err := e.Update([]string{"set", "mix_mode", c.MixMode}); err != nil {
		return nil, err
	}
	if err := e.Update([]string{"set", "fm_index", strconv.FormatFloat(c.FMIndex, 'g', -1, 64)}); err != nil {
		return nil, err
	}
	hold := int(c.Hold * float64(c.SampleRate))
	tail := int(c.Tail * float64(c.SampleRate))
	out := make([]float64, hold+tail)
	e.NoteOn(c.Note, c.Velocity)
	e.Process(out[:hold])
	e.NoteOff(c.Note)
	e.Process(out[hold:])
	return out, nil
}
