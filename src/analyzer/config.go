package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config ...
type Config struct {
	TargetDBFS    float64 `json:"targetDbfs"`
	DCAlpha       float64 `json:"dcAlpha"`
	NoiseGate     bool    `json:"noiseGate"`
	GateThreshold float64 `json:"gateThreshold"`
}

// DefaultConfig ...
func DefaultConfig() Config {
	return Config{
		TargetDBFS:    -10,
		DCAlpha:       0.995,
		NoiseGate:     true,
		GateThreshold: 1.5,
	}
}

// ApplyJSON overlays the fields present in data.
func (c *Config) ApplyJSON(data []byte) error {
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to apply JSON to config: %w", err)
	}
	return nil
}

// LoadConfig reads a JSON file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	bytes, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = c.ApplyJSON(bytes)
	return c, err
}
