package audio

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/marumaru-synth/marumaru/src/dsp"
	"github.com/marumaru-synth/marumaru/src/wavetable"
)

const (
	DefaultSampleRate = 48000
	ChannelNum        = 2
	BitDepthInBytes   = 2
	samplesPerCycle   = 1024
	fftSize           = 2048 // multiple of samplesPerCycle
)
const bytesPerSample = BitDepthInBytes * ChannelNum

// BufferSizeInBytes is the size of one render cycle.
const BufferSizeInBytes = samplesPerCycle * bytesPerSample

const baseFreq = 440.0

func noteToFreq(note int) float64 {
	return baseFreq * math.Pow(2, float64(note-69)/12)
}

// ----- Engine ----- //

// Engine renders one voice from up to three section sets.
//
// Bank state is guarded by mu, which Process holds once per block.
// Parameters travel as immutable snapshots through an atomic pointer.
type Engine struct {
	sampleRate int
	logger     *log.Logger

	mu           sync.Mutex
	bank         *OscillatorBank
	notes        *noteStack
	velocityGain float64
	applied      *ParamBundle
	history      []float64 // length: fftSize
	pos          int

	params atomic.Pointer[ParamBundle]

	// control side
	ctrl    sync.Mutex
	presets *presetManager

	// render side
	block []float64 // length: samplesPerCycle

	// spectrum side
	specMu sync.Mutex
	fft    *dsp.FFT
}

var _ io.Reader = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger ...
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		e.logger = l
	}
}

// WithPresetDir ...
func WithPresetDir(dir string) Option {
	return func(e *Engine) {
		e.presets = newPresetManager(dir)
	}
}

// NewEngine ...
func NewEngine(sampleRate int, opts ...Option) *Engine {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	e := &Engine{
		sampleRate:   sampleRate,
		logger:       log.New(io.Discard, "", 0),
		bank:         NewOscillatorBank(sampleRate),
		notes:        newNoteStack(),
		velocityGain: 1,
		history:      make([]float64, fftSize),
		presets:      newPresetManager("presets"),
		block:        make([]float64, samplesPerCycle),
		fft:          dsp.NewFFT(fftSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.params.Store(NewParamBundle())
	return e
}

// SampleRate ...
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// Params returns a copy of the current snapshot.
func (e *Engine) Params() *ParamBundle {
	return e.params.Load().Clone()
}

// SetParams publishes p. The caller must not modify p afterwards.
func (e *Engine) SetParams(p *ParamBundle) {
	if p == nil {
		return
	}
	e.params.Swap(p)
}

// Load copies set into every unit.
func (e *Engine) Load(set *wavetable.Set) {
	var sets [numUnits]*wavetable.Set
	for i := range sets {
		sets[i] = set.Clone()
	}
	e.mu.Lock()
	e.bank.load(sets)
	e.mu.Unlock()
}

// LoadUnit copies set into unit i only.
func (e *Engine) LoadUnit(i int, set *wavetable.Set) error {
	if i < 0 || i >= numUnits {
		return fmt.Errorf("unit index out of range: %v", i)
	}
	var sets [numUnits]*wavetable.Set
	sets[i] = set.Clone()
	e.mu.Lock()
	e.bank.load(sets)
	e.mu.Unlock()
	return nil
}

// LoadFile reads a section set file and loads it into every unit.
func (e *Engine) LoadFile(path string) error {
	set, err := wavetable.Load(path)
	if err != nil {
		return err
	}
	e.Load(set)
	e.logger.Printf("[INFO] loaded %s (core=%d, loop=%d, release=%d)\n", path, set.Core.Len(), set.Loop.Len(), set.Release.Len())
	return nil
}

// NoteOn starts a note or moves the held voice to it.
// Velocity 0 is treated as NoteOff.
func (e *Engine) NoteOn(note int, velocity int) {
	if velocity <= 0 {
		e.NoteOff(note)
		return
	}
	if velocity > 127 {
		velocity = 127
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	wasActive := e.notes.active()
	e.notes.push(noteOn{note: note, velocity: velocity})
	e.bank.setFrequency(noteToFreq(note))
	if !wasActive {
		e.velocityGain = float64(velocity) / 127
	}
}

// NoteOff releases a note. Remaining held notes keep the voice alive.
func (e *Engine) NoteOff(note int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notes.remove(note)
	if e.notes.active() {
		e.bank.setFrequency(noteToFreq(e.notes.top().note))
	}
}

// Process fills out with mono samples.
func (e *Engine) Process(out []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.params.Load(); p != e.applied {
		e.bank.apply(p)
		e.applied = p
	}
	active := e.notes.active()
	for i := range out {
		v := e.bank.Process(active) * e.velocityGain
		out[i] = v
		e.history[e.pos] = v
		e.pos = (e.pos + 1) % fftSize
	}
}

// Read renders interleaved 16-bit stereo.
func (e *Engine) Read(buf []byte) (int, error) {
	bufSamples := len(buf) / bytesPerSample
	for offset := 0; offset < bufSamples; {
		n := bufSamples - offset
		if n > len(e.block) {
			n = len(e.block)
		}
		out := e.block[:n]
		e.Process(out)
		chunk := buf[offset*bytesPerSample : (offset+n)*bytesPerSample]
		for ch := 0; ch < ChannelNum; ch++ {
			writeBuffer(out, chunk, ch)
		}
		offset += n
	}
	return bufSamples * bytesPerSample, nil
}

func writeBuffer(out []float64, buf []byte, ch int) {
	sampleLength := len(buf) / bytesPerSample
	for i := 0; i < sampleLength; i++ {
		value := math.Max(-1, math.Min(1, out[i]))
		const max = 32767
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Spectrum returns the magnitude spectrum of the latest output.
// It is safe to call from several goroutines.
func (e *Engine) Spectrum() []float64 {
	e.specMu.Lock()
	defer e.specMu.Unlock()
	e.mu.Lock()
	// history:   | 4 | 1 | 2 | 3 |
	// pos:           ^
	// frame:     | 1 | 2 | 3 | 4 |
	frame := make([]float64, fftSize)
	copy(frame, e.history[e.pos:])
	copy(frame[fftSize-e.pos:], e.history[:e.pos])
	e.mu.Unlock()
	dsp.Han(frame)
	result := e.fft.CalcAbs(frame)
	for i, value := range result {
		result[i] = value * 2 / fftSize
	}
	return result
}

// Presets lists the names in the preset directory.
func (e *Engine) Presets() ([]string, error) {
	e.ctrl.Lock()
	defer e.ctrl.Unlock()
	return e.presets.getList()
}

// ApplyPreset ...
func (e *Engine) ApplyPreset(name string) error {
	e.ctrl.Lock()
	defer e.ctrl.Unlock()
	p := e.Params()
	if err := e.presets.applyToParams(name, p); err != nil {
		return err
	}
	e.SetParams(p)
	return nil
}

// Update runs one text command.
func (e *Engine) Update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "set":
		e.ctrl.Lock()
		defer e.ctrl.Unlock()
		p := e.Params()
		if err := p.set(command[1:]); err != nil {
			return err
		}
		e.SetParams(p)
	case "params":
		if len(command) != 2 {
			return fmt.Errorf("invalid params command %v", command)
		}
		e.ctrl.Lock()
		defer e.ctrl.Unlock()
		p := e.Params()
		if err := p.ApplyJSON([]byte(command[1])); err != nil {
			return err
		}
		e.SetParams(p)
	case "preset":
		if len(command) != 2 {
			return fmt.Errorf("invalid preset command %v", command)
		}
		return e.ApplyPreset(command[1])
	case "load":
		if len(command) != 2 {
			return fmt.Errorf("invalid load command %v", command)
		}
		return e.LoadFile(command[1])
	case "note_on":
		if len(command) < 2 {
			return fmt.Errorf("invalid note_on command %v", command)
		}
		note, err := strconv.Atoi(command[1])
		if err != nil {
			return err
		}
		velocity := 127
		if len(command) > 2 {
			velocity, err = strconv.Atoi(command[2])
			if err != nil {
				return err
			}
		}
		e.NoteOn(note, velocity)
	case "note_off":
		if len(command) != 2 {
			return fmt.Errorf("invalid note_off command %v", command)
		}
		note, err := strconv.Atoi(command[1])
		if err != nil {
			return err
		}
		e.NoteOff(note)
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	return nil
}

// AddMidiEvent handles raw note-on and note-off messages.
func (e *Engine) AddMidiEvent(data []byte) {
	if len(data) < 3 {
		return
	}
	switch {
	case data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0:
		e.logger.Printf("got note-off: %v\n", data)
		e.NoteOff(int(data[1]))
	case data[0]>>4 == 9:
		e.logger.Printf("got note-on: %v\n", data)
		e.NoteOn(int(data[1]), int(data[2]))
	}
}
