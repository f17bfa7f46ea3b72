// Package config loads and saves simulation scenarios as YAML and ships
// the named presets the CLI exposes.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"mudsim/internal/coupling"
	"mudsim/internal/downhole"
	"mudsim/internal/fluid"
	"mudsim/internal/kinetics"
	"mudsim/internal/sensitivity"
	"mudsim/internal/sim"
)

const (
	DefaultDt           = 1.0
	DefaultHorizon      = 200.0
	DefaultRefShearRate = 100.0
)

type Config struct {
	Dt           float64 `yaml:"dt"`
	Horizon      float64 `yaml:"horizon"`
	RefShearRate float64 `yaml:"ref_shear_rate"`
	InitialAlpha float64 `yaml:"initial_alpha"`

	Stepper       string  `yaml:"stepper"`  // exponential | euler
	Coupling      string  `yaml:"coupling"` // linear | power
	CouplingGamma float64 `yaml:"coupling_gamma"`

	Environment EnvironmentConfig `yaml:"environment"`
	Kinetics    KineticsConfig    `yaml:"kinetics"`
	Base        ParamsConfig      `yaml:"base"`
	Max         ParamsConfig      `yaml:"max"`
}

type EnvironmentConfig struct {
	Depth       float64 `yaml:"depth"`
	Pressure    float64 `yaml:"pressure"`
	Temperature float64 `yaml:"temperature"`
	PH          float64 `yaml:"ph"`

	// TemperatureProfile, when present, replaces the constant
	// temperature with a ramp.
	TemperatureProfile []PointConfig `yaml:"temperature_profile,omitempty"`
}

type PointConfig struct {
	Time  float64 `yaml:"t"`
	Value float64 `yaml:"value"`
}

type KineticsConfig struct {
	Steepness        float64 `yaml:"steepness"`
	MidpointTemp     float64 `yaml:"midpoint_temp"`
	RatePrefactor    float64 `yaml:"rate_prefactor"`
	ActivationEnergy float64 `yaml:"activation_energy"`
}

type ParamsConfig struct {
	Model       string  `yaml:"model"` // herschel_bulkley | bingham
	YieldStress float64 `yaml:"yield_stress"`
	Consistency float64 `yaml:"consistency"`
	FlowIndex   float64 `yaml:"flow_index"`
}

func DefaultConfig() *Config {
	return &Config{
		Dt:           DefaultDt,
		Horizon:      DefaultHorizon,
		RefShearRate: DefaultRefShearRate,
		Stepper:      "exponential",
		Coupling:     "linear",
		Environment: EnvironmentConfig{
			Depth:       3000,
			Pressure:    5000,
			Temperature: 90,
			PH:          7,
		},
		Kinetics: KineticsConfig{
			Steepness:     0.05,
			MidpointTemp:  90,
			RatePrefactor: 0.05,
		},
		Base: ParamsConfig{Model: "herschel_bulkley", YieldStress: 5, Consistency: 0.02, FlowIndex: 0.7},
		Max:  ParamsConfig{Model: "herschel_bulkley", YieldStress: 9, Consistency: 0.05, FlowIndex: 0.7},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Scenario converts the config into a runnable baseline.
func (c *Config) Scenario() (sensitivity.Scenario, error) {
	env, err := c.Environment.build()
	if err != nil {
		return sensitivity.Scenario{}, err
	}

	base, err := c.Base.build()
	if err != nil {
		return sensitivity.Scenario{}, fmt.Errorf("base params: %w", err)
	}
	max, err := c.Max.build()
	if err != nil {
		return sensitivity.Scenario{}, fmt.Errorf("max params: %w", err)
	}

	stepper, err := BuildStepper(c.Stepper)
	if err != nil {
		return sensitivity.Scenario{}, err
	}
	coupler, err := BuildCoupler(c.Coupling, c.CouplingGamma)
	if err != nil {
		return sensitivity.Scenario{}, err
	}

	return sensitivity.Scenario{
		Env: env,
		Kinetics: kinetics.Model{
			Steepness:        c.Kinetics.Steepness,
			MidpointTemp:     c.Kinetics.MidpointTemp,
			RatePrefactor:    c.Kinetics.RatePrefactor,
			ActivationEnergy: c.Kinetics.ActivationEnergy,
		},
		Base: base,
		Max:  max,
		Config: sim.Config{
			Dt:           c.Dt,
			Horizon:      c.Horizon,
			RefShearRate: c.RefShearRate,
			InitialAlpha: c.InitialAlpha,
		},
		Stepper: stepper,
		Coupler: coupler,
	}, nil
}

func (e EnvironmentConfig) build() (downhole.Environment, error) {
	env := downhole.NewEnvironment(e.Depth, e.Pressure, e.Temperature, e.PH)
	if len(e.TemperatureProfile) > 0 {
		samples := make([]downhole.Sample, len(e.TemperatureProfile))
		for i, p := range e.TemperatureProfile {
			samples[i] = downhole.Sample{Time: p.Time, Value: p.Value}
		}
		ramp, err := downhole.NewTrajectory(samples)
		if err != nil {
			return downhole.Environment{}, fmt.Errorf("temperature profile: %w", err)
		}
		env.Temperature = ramp
	}
	return env, nil
}

func (p ParamsConfig) build() (fluid.Params, error) {
	var params fluid.Params
	switch p.Model {
	case "", "herschel_bulkley":
		params = fluid.NewHerschelBulkley(p.YieldStress, p.Consistency, p.FlowIndex)
	case "bingham":
		params = fluid.NewBingham(p.YieldStress, p.Consistency)
	default:
		return fluid.Params{}, fmt.Errorf("%w: unknown rheology model %q", fluid.ErrInvalidParameter, p.Model)
	}
	return params, params.Validate()
}

// BuildStepper resolves a kinetics stepper by name. Empty selects the
// default exact-exponential update.
func BuildStepper(name string) (kinetics.Stepper, error) {
	switch name {
	case "", "exponential":
		return kinetics.NewExactExponential(), nil
	case "euler":
		return kinetics.NewExplicitEuler(), nil
	default:
		return nil, fmt.Errorf("%w: unknown stepper %q", fluid.ErrInvalidParameter, name)
	}
}

// BuildCoupler resolves a coupling strategy by name.
func BuildCoupler(name string, gamma float64) (coupling.Coupler, error) {
	switch name {
	case "", "linear":
		return coupling.NewLinear(), nil
	case "power":
		if gamma == 0 {
			gamma = 2
		}
		return coupling.NewPower(gamma), nil
	default:
		return nil, fmt.Errorf("%w: unknown coupling %q", fluid.ErrInvalidParameter, name)
	}
}
