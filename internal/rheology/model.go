// Package rheology evaluates non-Newtonian constitutive laws for
// drilling fluids. Both supported laws share the Herschel-Bulkley form
//
//	τ = τ₀ + K·γ̇ⁿ
//
// with Bingham Plastic as the n = 1 special case (K is the plastic
// viscosity). All functions are pure; parameter sets are validated on
// every call so an invalid coefficient can never be silently used.
package rheology

import (
	"fmt"
	"math"

	"mudsim/internal/fluid"
)

// Stress returns the shear stress in Pa at the given shear rate in 1/s.
func Stress(p fluid.Params, shearRate float64) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if shearRate < 0 {
		return 0, fmt.Errorf("%w: shear rate %g < 0", fluid.ErrInvalidInput, shearRate)
	}
	return p.YieldStress + p.Consistency*math.Pow(shearRate, p.FlowIndex), nil
}

// ApparentViscosity returns τ/γ̇ at the given shear rate. At γ̇ = 0 the
// quotient is undefined and the undefined sentinel is returned instead
// of dividing by zero.
func ApparentViscosity(p fluid.Params, shearRate float64) (fluid.Viscosity, error) {
	stress, err := Stress(p, shearRate)
	if err != nil {
		return fluid.Viscosity{}, err
	}
	if shearRate == 0 {
		return fluid.UndefinedViscosity(), nil
	}
	return fluid.NewViscosity(stress / shearRate), nil
}

// Sample evaluates stress and apparent viscosity together, the per-frame
// derived output of a simulation step.
func Sample(p fluid.Params, shearRate float64) (float64, fluid.Viscosity, error) {
	stress, err := Stress(p, shearRate)
	if err != nil {
		return 0, fluid.Viscosity{}, err
	}
	if shearRate == 0 {
		return stress, fluid.UndefinedViscosity(), nil
	}
	return stress, fluid.NewViscosity(stress / shearRate), nil
}
