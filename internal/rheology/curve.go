package rheology

import (
	"fmt"

	"mudsim/internal/fluid"
)

// Point is one sample of a flow curve (rheogram).
type Point struct {
	ShearRate float64
	Stress    float64
}

// FlowCurve samples the stress response over [from, to] at n evenly
// spaced shear rates.
func FlowCurve(p fluid.Params, from, to float64, n int) ([]Point, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: flow curve needs at least 2 points, got %d", fluid.ErrInvalidParameter, n)
	}
	if from < 0 || to < from {
		return nil, fmt.Errorf("%w: shear rate range [%g, %g]", fluid.ErrInvalidInput, from, to)
	}

	points := make([]Point, n)
	step := (to - from) / float64(n-1)
	for i := range points {
		rate := from + float64(i)*step
		stress, err := Stress(p, rate)
		if err != nil {
			return nil, err
		}
		points[i] = Point{ShearRate: rate, Stress: stress}
	}
	return points, nil
}

// Comparison pairs the conventional (unactivated) flow curve with the
// activated one and reports the apparent-viscosity change at a reference
// shear rate, relative to the conventional fluid.
type Comparison struct {
	Conventional []Point
	Activated    []Point

	RefShearRate          float64
	ConventionalViscosity fluid.Viscosity
	ActivatedViscosity    fluid.Viscosity
	ViscosityChangePct    float64
}

// Compare builds a Comparison over [from, to] with n points per curve.
// The reference shear rate must be positive so the viscosity quotient is
// defined.
func Compare(base, activated fluid.Params, from, to float64, n int, refShearRate float64) (*Comparison, error) {
	if refShearRate <= 0 {
		return nil, fmt.Errorf("%w: reference shear rate %g <= 0", fluid.ErrInvalidInput, refShearRate)
	}

	conv, err := FlowCurve(base, from, to, n)
	if err != nil {
		return nil, err
	}
	act, err := FlowCurve(activated, from, to, n)
	if err != nil {
		return nil, err
	}

	convVisc, err := ApparentViscosity(base, refShearRate)
	if err != nil {
		return nil, err
	}
	actVisc, err := ApparentViscosity(activated, refShearRate)
	if err != nil {
		return nil, err
	}

	return &Comparison{
		Conventional:          conv,
		Activated:             act,
		RefShearRate:          refShearRate,
		ConventionalViscosity: convVisc,
		ActivatedViscosity:    actVisc,
		ViscosityChangePct:    100 * (actVisc.PaS() - convVisc.PaS()) / convVisc.PaS(),
	}, nil
}
