package audio

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
)

// ----- Params ----- //

type oscParams struct {
	level float64 // 0 ~ 1
	ratio float64 // FM frequency ratio
}

type oscParamsJSON struct {
	Level float64 `json:"level"`
	Ratio float64 `json:"ratio"`
}

func (o *oscParams) applyJSON(data json.RawMessage) {
	var j oscParamsJSON
	j.Level = o.level
	j.Ratio = o.ratio
	if err := json.Unmarshal(data, &j); err != nil {
		log.Println("failed to apply JSON to osc params", err)
		return
	}
	o.level = j.Level
	o.ratio = j.Ratio
}

func (o *oscParams) toJSON() json.RawMessage {
	return toRawMessage(&oscParamsJSON{
		Level: o.level,
		Ratio: o.ratio,
	})
}

func (o *oscParams) set(key string, value string) error {
	switch key {
	case "level":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.level = v
	case "ratio":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("ratio should be positive: %v", v)
		}
		o.ratio = v
	default:
		return fmt.Errorf("unknown key %v", key)
	}
	return nil
}

// ParamBundle is an immutable snapshot once handed to Engine.SetParams.
// attack, decay, sustain, release, cutoff and resonance are stored only.
type ParamBundle struct {
	attack    float64 // ms
	decay     float64 // ms
	sustain   float64 // 0 ~ 1
	release   float64 // ms
	blend     float64 // 0 ~ 1
	cutoff    float64 // Hz
	resonance float64
	oscs      [numUnits]oscParams
	fmIndex   float64
	mixMode   MixMode
}

// NewParamBundle ...
func NewParamBundle() *ParamBundle {
	p := &ParamBundle{
		attack:    10,
		decay:     100,
		sustain:   0.7,
		release:   200,
		blend:     0.5,
		cutoff:    15000,
		resonance: 0.707,
		fmIndex:   1,
		mixMode:   MixAdditive,
	}
	for i := range p.oscs {
		p.oscs[i] = oscParams{level: 1, ratio: 1}
	}
	return p
}

// Clone ...
func (p *ParamBundle) Clone() *ParamBundle {
	c := *p
	return &c
}

// MixMode ...
func (p *ParamBundle) MixMode() MixMode {
	return p.mixMode
}

// Level ...
func (p *ParamBundle) Level(i int) float64 {
	return p.oscs[i].level
}

// Ratio ...
func (p *ParamBundle) Ratio(i int) float64 {
	return p.oscs[i].ratio
}

// FMIndex ...
func (p *ParamBundle) FMIndex() float64 {
	return p.fmIndex
}

type paramsJSON struct {
	Attack    float64           `json:"attack"`
	Decay     float64           `json:"decay"`
	Sustain   float64           `json:"sustain"`
	Release   float64           `json:"release"`
	Blend     float64           `json:"blend"`
	Cutoff    float64           `json:"cutoff"`
	Resonance float64           `json:"resonance"`
	Oscs      []json.RawMessage `json:"oscs"`
	FMIndex   float64           `json:"fmIndex"`
	MixMode   string            `json:"mixMode"`
}

// ApplyJSON overwrites the fields present in data.
func (p *ParamBundle) ApplyJSON(data []byte) error {
	j := paramsJSON{
		Attack:    p.attack,
		Decay:     p.decay,
		Sustain:   p.sustain,
		Release:   p.release,
		Blend:     p.blend,
		Cutoff:    p.cutoff,
		Resonance: p.resonance,
		FMIndex:   p.fmIndex,
		MixMode:   p.mixMode.String(),
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("failed to apply JSON to params: %w", err)
	}
	mixMode, ok := mixModeFromString(j.MixMode)
	if !ok {
		return fmt.Errorf("unknown mix mode %v", j.MixMode)
	}
	p.attack = j.Attack
	p.decay = j.Decay
	p.sustain = j.Sustain
	p.release = j.Release
	p.blend = j.Blend
	p.cutoff = j.Cutoff
	p.resonance = j.Resonance
	p.fmIndex = j.FMIndex
	p.mixMode = mixMode
	if j.Oscs != nil {
		if len(j.Oscs) != len(p.oscs) {
			log.Println("failed to apply JSON to osc params")
		} else {
			for i, o := range j.Oscs {
				p.oscs[i].applyJSON(o)
			}
		}
	}
	return nil
}

// ToJSON ...
func (p *ParamBundle) ToJSON() []byte {
	oscJsons := make([]json.RawMessage, len(p.oscs))
	for i := range p.oscs {
		oscJsons[i] = p.oscs[i].toJSON()
	}
	return toRawMessage(&paramsJSON{
		Attack:    p.attack,
		Decay:     p.decay,
		Sustain:   p.sustain,
		Release:   p.release,
		Blend:     p.blend,
		Cutoff:    p.cutoff,
		Resonance: p.resonance,
		Oscs:      oscJsons,
		FMIndex:   p.fmIndex,
		MixMode:   p.mixMode.String(),
	})
}

// set handles "osc <1-3> <key> <value>", "mix_mode <mode>" and "<key> <value>".
func (p *ParamBundle) set(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("missing key")
	}
	switch command[0] {
	case "osc":
		command = command[1:]
		if len(command) != 3 {
			return fmt.Errorf("invalid osc command %v", command)
		}
		index, err := strconv.Atoi(command[0])
		if err != nil {
			return err
		}
		if index < 1 || index > numUnits {
			return fmt.Errorf("osc index out of range: %v", index)
		}
		return p.oscs[index-1].set(command[1], command[2])
	case "mix_mode":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		mixMode, ok := mixModeFromString(command[1])
		if !ok {
			return fmt.Errorf("unknown mix mode %v", command[1])
		}
		p.mixMode = mixMode
		return nil
	}
	if len(command) != 2 {
		return fmt.Errorf("invalid key-value pair %v", command)
	}
	var target *float64
	switch command[0] {
	case "attack":
		target = &p.attack
	case "decay":
		target = &p.decay
	case "sustain":
		target = &p.sustain
	case "release":
		target = &p.release
	case "blend":
		target = &p.blend
	case "cutoff":
		target = &p.cutoff
	case "resonance":
		target = &p.resonance
	case "fm_index":
		target = &p.fmIndex
	default:
		return fmt.Errorf("unknown key %v", command[0])
	}
	v, err := strconv.ParseFloat(command[1], 64)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}
