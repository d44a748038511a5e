package wavetable

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Section is one playable segment: a waveform and its gain curve in the same index space.
type Section struct {
	Wave      []float64
	Gain      []float64
	Crossfade bool
}

// Len ...
func (s *Section) Len() int {
	return len(s.Wave)
}

func (s *Section) clone() Section {
	return Section{
		Wave:      append([]float64(nil), s.Wave...),
		Gain:      append([]float64(nil), s.Gain...),
		Crossfade: s.Crossfade,
	}
}

// Set holds the Core, Loop and Release sections of one analyzed instrument.
type Set struct {
	Core        Section
	Loop        Section
	Release     Section
	Periodicity float64
	Correlation float64
}

// NewSet copies the given waves and gains into a new Set.
func NewSet(coreWave, loopWave, releaseWave, coreGain, loopGain, releaseGain []float64) *Set {
	s := &Set{
		Core:    Section{Wave: coreWave, Gain: coreGain},
		Loop:    Section{Wave: loopWave, Gain: loopGain, Crossfade: true},
		Release: Section{Wave: releaseWave, Gain: releaseGain},
	}
	return s.Clone()
}

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	return &Set{
		Core:        s.Core.clone(),
		Loop:        s.Loop.clone(),
		Release:     s.Release.clone(),
		Periodicity: s.Periodicity,
		Correlation: s.Correlation,
	}
}

// IO
//   all = { number_of_tables int32, tables []table }
//   table = { number_of_samples int32, samples []float64 }
//
// tables are written in this order:
//   core wave, loop wave, release wave, core gain, loop gain, release gain,
//   meta = { periodicity, correlation }

const numTables = 7

func (s *Set) tables() [][]float64 {
	return [][]float64{
		s.Core.Wave, s.Loop.Wave, s.Release.Wave,
		s.Core.Gain, s.Loop.Gain, s.Release.Gain,
		{s.Periodicity, s.Correlation},
	}
}

// WriteTo ...
func (s *Set) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	tables := s.tables()
	err := binary.Write(bw, binary.BigEndian, int32(len(tables)))
	if err != nil {
		return written, err
	}
	written += 4
	for _, table := range tables {
		err = binary.Write(bw, binary.BigEndian, int32(len(table)))
		if err != nil {
			return written, err
		}
		err = binary.Write(bw, binary.BigEndian, table)
		if err != nil {
			return written, err
		}
		written += 4 + 8*int64(len(table))
	}
	return written, bw.Flush()
}

// Read decodes a Set written by WriteTo.
func Read(r io.Reader) (*Set, error) {
	br := bufio.NewReader(r)
	var n int32
	err := binary.Read(br, binary.BigEndian, &n)
	if err != nil {
		return nil, err
	}
	if n != numTables {
		return nil, fmt.Errorf("unexpected number of tables: %d", n)
	}
	tables := make([][]float64, n)
	for i := range tables {
		var numSamples int32
		err = binary.Read(br, binary.BigEndian, &numSamples)
		if err != nil {
			return nil, err
		}
		if numSamples < 0 {
			return nil, fmt.Errorf("invalid number of samples: %d", numSamples)
		}
		tables[i] = make([]float64, numSamples)
		err = binary.Read(br, binary.BigEndian, tables[i])
		if err != nil {
			return nil, err
		}
	}
	meta := tables[6]
	if len(meta) != 2 {
		return nil, fmt.Errorf("invalid meta table length: %d", len(meta))
	}
	return &Set{
		Core:        Section{Wave: tables[0], Gain: tables[3]},
		Loop:        Section{Wave: tables[1], Gain: tables[4], Crossfade: true},
		Release:     Section{Wave: tables[2], Gain: tables[5]},
		Periodicity: meta[0],
		Correlation: meta[1],
	}, nil
}

// Save ...
func (s *Set) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(file)
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Load ...
func Load(path string) (*Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	s, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}
