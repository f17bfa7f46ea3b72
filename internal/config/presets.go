package config

// Presets are the scenario library exposed through the CLI. Each returns
// a fresh Config so callers can mutate freely.
var presets = map[string]func() *Config{
	"baseline": DefaultConfig,
	"hpht":     hpht,
	"heatup":   heatup,
}

// hpht is a high-pressure high-temperature well section: hot enough to
// drive activation well past the sigmoid midpoint.
func hpht() *Config {
	cfg := DefaultConfig()
	cfg.Environment.Depth = 5500
	cfg.Environment.Pressure = 12000
	cfg.Environment.Temperature = 160
	cfg.Environment.PH = 6.5
	cfg.Kinetics.MidpointTemp = 120
	cfg.Kinetics.Steepness = 0.1
	return cfg
}

// heatup ramps the temperature from 60 °C to 160 °C over the first half
// of the horizon, exercising trajectory interpolation.
func heatup() *Config {
	cfg := DefaultConfig()
	cfg.Kinetics.MidpointTemp = 110
	cfg.Kinetics.Steepness = 0.1
	cfg.Environment.TemperatureProfile = []PointConfig{
		{Time: 0, Value: 60},
		{Time: 100, Value: 160},
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil if it does not
// exist.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
