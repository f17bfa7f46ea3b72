// Package sensitivity explores how simulation outputs respond to input
// parameters with one-factor-at-a-time perturbation sweeps. Every run
// gets independently constructed components so no state can leak
// between the baseline and any perturbed run.
package sensitivity

import (
	"fmt"

	"mudsim/internal/coupling"
	"mudsim/internal/downhole"
	"mudsim/internal/fluid"
	"mudsim/internal/kinetics"
	"mudsim/internal/sim"
)

// Scenario is a fully-specified baseline run. Scenarios copy by value;
// the environment's signals are immutable and safe to share across
// concurrent runs.
type Scenario struct {
	Env      downhole.Environment
	Kinetics kinetics.Model
	Base     fluid.Params
	Max      fluid.Params
	Config   sim.Config

	// Stepper and Coupler are optional strategy overrides; both are
	// stateless and safe to share. Nil selects the simulator defaults.
	Stepper kinetics.Stepper
	Coupler coupling.Coupler
}

// Params exposes the scenario's tunable scalars by name. The name set
// matches what WithParam accepts.
func (s Scenario) Params() map[string]float64 {
	return map[string]float64{
		"base_yield_stress": s.Base.YieldStress,
		"base_consistency":  s.Base.Consistency,
		"max_yield_stress":  s.Max.YieldStress,
		"max_consistency":   s.Max.Consistency,
		"flow_index":        s.Base.FlowIndex,
		"steepness":         s.Kinetics.Steepness,
		"midpoint_temp":     s.Kinetics.MidpointTemp,
		"rate_prefactor":    s.Kinetics.RatePrefactor,
		"activation_energy": s.Kinetics.ActivationEnergy,
		"initial_alpha":     s.Config.InitialAlpha,
		"ref_shear_rate":    s.Config.RefShearRate,
	}
}

// WithParam returns an independent copy of the scenario with one named
// parameter replaced. Unknown names fail with the invalid-parameter
// error. The flow index is shared by the base and activated sets, so
// setting it updates both.
func (s Scenario) WithParam(name string, value float64) (Scenario, error) {
	switch name {
	case "base_yield_stress":
		s.Base.YieldStress = value
	case "base_consistency":
		s.Base.Consistency = value
	case "max_yield_stress":
		s.Max.YieldStress = value
	case "max_consistency":
		s.Max.Consistency = value
	case "flow_index":
		s.Base.FlowIndex = value
		s.Max.FlowIndex = value
	case "steepness":
		s.Kinetics.Steepness = value
	case "midpoint_temp":
		s.Kinetics.MidpointTemp = value
	case "rate_prefactor":
		s.Kinetics.RatePrefactor = value
	case "activation_energy":
		s.Kinetics.ActivationEnergy = value
	case "initial_alpha":
		s.Config.InitialAlpha = value
	case "ref_shear_rate":
		s.Config.RefShearRate = value
	default:
		return Scenario{}, fmt.Errorf("%w: unknown parameter %q", fluid.ErrInvalidParameter, name)
	}
	return s, nil
}

// build constructs fresh components for one run. Never reused across
// runs.
func (s Scenario) build() *sim.Simulator {
	return sim.New(s.Env, s.Kinetics, s.Stepper, s.Coupler, s.Base, s.Max)
}
