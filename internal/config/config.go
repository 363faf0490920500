package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/vecmath"
)

const (
	DefaultDt          = 0.1
	DefaultSteps       = 864000
	DefaultReportEvery = 1
	DefaultMassA       = 5.1e24
	DefaultMassB       = 15.1e24
)

type Config struct {
	Name          string       `yaml:"name,omitempty"`
	Dt            float32      `yaml:"dt"`
	Steps         int          `yaml:"steps"`
	ReportEvery   int          `yaml:"report_every"`
	ValidateState bool         `yaml:"validate_state"`
	Bodies        []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	Position [3]float32 `yaml:"position,flow" json:"position"`
	Mass     float32    `yaml:"mass" json:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "reference",
		Dt:          DefaultDt,
		Steps:       DefaultSteps,
		ReportEvery: DefaultReportEvery,
		Bodies: []BodyConfig{
			{Position: [3]float32{0, 0, 0}, Mass: DefaultMassA},
			{Position: [3]float32{10, 10, 10}, Mass: DefaultMassB},
		},
	}
}

// Load reads a YAML file over the defaults; keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file over cfg, which may already hold a preset.
// Keys missing from the file are left untouched. A bodies list in the file
// replaces cfg's bodies as a whole.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the shape of the config. Value ranges such as a positive
// time step are enforced by the simulator.
func (c *Config) Validate() error {
	if len(c.Bodies) != 2 {
		return fmt.Errorf("exactly 2 bodies required, got %d", len(c.Bodies))
	}
	return nil
}

func (c *Config) ToSim() (sim.Config, error) {
	if err := c.Validate(); err != nil {
		return sim.Config{}, err
	}
	out := sim.Config{
		Dt:            c.Dt,
		Steps:         c.Steps,
		ReportEvery:   c.ReportEvery,
		ValidateState: c.ValidateState,
	}
	for i, b := range c.Bodies {
		out.Bodies[i] = sim.BodySpec{
			Position: vecmath.New(b.Position[0], b.Position[1], b.Position[2]),
			Mass:     b.Mass,
		}
	}
	return out, nil
}
