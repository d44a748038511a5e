// Package wavfile loads recordings as mono float64 samples and writes rendered audio.
package wavfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidFile is returned for data that is not a WAV file.
var ErrInvalidFile = errors.New("invalid WAV file")

// Decode reads a WAV stream, averaging all channels into one.
// Samples are scaled to [-1, 1) by the source bit depth.
func Decode(r io.ReadSeeker) ([]float64, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, ErrInvalidFile
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = int(decoder.BitDepth)
	}
	scale := math.Pow(2, float64(bitDepth-1))
	frames := len(buf.Data) / channels
	out := make([]float64, frames)
	for i := range out {
		sum := 0
		for ch := 0; ch < channels; ch++ {
			sum += buf.Data[i*channels+ch]
		}
		out[i] = float64(sum) / float64(channels) / scale
	}
	return out, buf.Format.SampleRate, nil
}

// Read decodes the WAV file at path.
func Read(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Encode writes samples as 16-bit mono PCM, clipping to [-1, 1].
func Encode(w io.WriteSeeker, samples []float64, sampleRate int) error {
	const bitDepth = 16
	const max = 32767
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(math.Max(-1, math.Min(1, v)) * max)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	encoder := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("data writing error: %w", err)
	}
	return encoder.Close()
}

// Write encodes samples into a new file at path.
func Write(path string, samples []float64, sampleRate int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output file creation error: %w", err)
	}
	if err := Encode(file, samples, sampleRate); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
