// Package coupling maps the nanoparticle activation fraction onto
// rheological parameters. A Coupler is the single point where kinetics
// touches rheology: a pure, stateless blend of a base (α = 0) and a
// fully-activated (α = 1) parameter set.
package coupling

import (
	"fmt"
	"math"

	"mudsim/internal/fluid"
)

// Coupler computes the activated parameter set for one instant.
// Implementations must be stateless so couplers can be shared across
// concurrent runs.
type Coupler interface {
	Blend(alpha float64, base, max fluid.Params) (fluid.Params, error)
}

// Linear interpolates yield stress and consistency componentwise:
// p(α) = base + α·(max − base).
type Linear struct{}

func NewLinear() *Linear {
	return &Linear{}
}

func (*Linear) Blend(alpha float64, base, max fluid.Params) (fluid.Params, error) {
	return blend(alpha, base, max)
}

// Power blends by α^Gamma, giving a convex (Gamma > 1) or concave
// (Gamma < 1) activation response while keeping the same endpoints as
// Linear.
type Power struct {
	Gamma float64
}

func NewPower(gamma float64) *Power {
	return &Power{Gamma: gamma}
}

func (p *Power) Blend(alpha float64, base, max fluid.Params) (fluid.Params, error) {
	if p.Gamma <= 0 {
		return fluid.Params{}, fmt.Errorf("%w: coupling exponent %g <= 0", fluid.ErrInvalidParameter, p.Gamma)
	}
	return blend(math.Pow(clamp01(alpha), p.Gamma), base, max)
}

func blend(weight float64, base, max fluid.Params) (fluid.Params, error) {
	if err := checkBounds(base, max); err != nil {
		return fluid.Params{}, err
	}
	w := clamp01(weight)
	return fluid.Params{
		YieldStress: base.YieldStress + w*(max.YieldStress-base.YieldStress),
		Consistency: base.Consistency + w*(max.Consistency-base.Consistency),
		FlowIndex:   base.FlowIndex,
		Kind:        base.Kind,
	}, nil
}

// checkBounds verifies the base/max pair is consistent: both valid, same
// constitutive law, same flow index, and max dominating base on every
// blended field.
func checkBounds(base, max fluid.Params) error {
	if err := base.Validate(); err != nil {
		return fmt.Errorf("base params: %w", err)
	}
	if err := max.Validate(); err != nil {
		return fmt.Errorf("max params: %w", err)
	}
	if base.Kind != max.Kind {
		return fmt.Errorf("%w: base is %v but max is %v", fluid.ErrInvalidParameter, base.Kind, max.Kind)
	}
	if base.FlowIndex != max.FlowIndex {
		return fmt.Errorf("%w: flow index mismatch between base (%g) and max (%g)",
			fluid.ErrInvalidParameter, base.FlowIndex, max.FlowIndex)
	}
	if max.YieldStress < base.YieldStress {
		return fmt.Errorf("%w: max yield stress %g < base %g", fluid.ErrInvalidParameter, max.YieldStress, base.YieldStress)
	}
	if max.Consistency < base.Consistency {
		return fmt.Errorf("%w: max consistency %g < base %g", fluid.ErrInvalidParameter, max.Consistency, base.Consistency)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
