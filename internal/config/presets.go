package config

import "sort"

var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"binary": {
		Name: "binary", Dt: 0.1, Steps: 86400, ReportEvery: 60,
		Bodies: []BodyConfig{
			{Position: [3]float32{0, 0, 0}, Mass: 5.1e24},
			{Position: [3]float32{1e7, 0, 0}, Mass: 5.1e24},
		},
	},
	"distant": {
		Name: "distant", Dt: 1, Steps: 36000, ReportEvery: 100,
		Bodies: []BodyConfig{
			{Position: [3]float32{0, 0, 0}, Mass: 5.1e24},
			{Position: [3]float32{3.8e8, 0, 0}, Mass: 7.3e22},
		},
	},
	"coincident": {
		Name: "coincident", Dt: 0.1, Steps: 10, ReportEvery: 1,
		Bodies: []BodyConfig{
			{Position: [3]float32{1, 1, 1}, Mass: 5.1e24},
			{Position: [3]float32{1, 1, 1}, Mass: 15.1e24},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Bodies = append([]BodyConfig(nil), p.Bodies...)
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
