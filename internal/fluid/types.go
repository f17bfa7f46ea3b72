package fluid

import "fmt"

// ModelKind selects the constitutive law a Params set belongs to.
type ModelKind int

const (
	HerschelBulkley ModelKind = iota
	BinghamPlastic
)

func (k ModelKind) String() string {
	switch k {
	case HerschelBulkley:
		return "herschel_bulkley"
	case BinghamPlastic:
		return "bingham"
	default:
		return fmt.Sprintf("ModelKind(%d)", int(k))
	}
}

// Condition is an immutable downhole environment snapshot.
type Condition struct {
	Depth       float64 // m
	Pressure    float64 // psi
	Temperature float64 // °C
	PH          float64
}

// Params is one rheological parameter set. For Bingham Plastic fluids
// Consistency holds the plastic viscosity and FlowIndex is exactly 1.
type Params struct {
	YieldStress float64   // τ₀, Pa
	Consistency float64   // K, Pa·sⁿ
	FlowIndex   float64   // n, dimensionless
	Kind        ModelKind // constitutive law
}

// NewHerschelBulkley builds a Herschel-Bulkley parameter set.
func NewHerschelBulkley(yieldStress, consistency, flowIndex float64) Params {
	return Params{
		YieldStress: yieldStress,
		Consistency: consistency,
		FlowIndex:   flowIndex,
		Kind:        HerschelBulkley,
	}
}

// NewBingham builds a Bingham Plastic parameter set with plastic
// viscosity mu.
func NewBingham(yieldStress, mu float64) Params {
	return Params{
		YieldStress: yieldStress,
		Consistency: mu,
		FlowIndex:   1,
		Kind:        BinghamPlastic,
	}
}

// Validate checks the parameter domain: τ₀ ≥ 0, K > 0, n > 0, and n = 1
// for Bingham Plastic sets.
func (p Params) Validate() error {
	if p.YieldStress < 0 {
		return fmt.Errorf("%w: yield stress %g < 0", ErrInvalidParameter, p.YieldStress)
	}
	if p.Consistency <= 0 {
		return fmt.Errorf("%w: consistency index %g <= 0", ErrInvalidParameter, p.Consistency)
	}
	if p.FlowIndex <= 0 {
		return fmt.Errorf("%w: flow behavior index %g <= 0", ErrInvalidParameter, p.FlowIndex)
	}
	if p.Kind == BinghamPlastic && p.FlowIndex != 1 {
		return fmt.Errorf("%w: bingham plastic requires flow index 1, got %g", ErrInvalidParameter, p.FlowIndex)
	}
	return nil
}

// Frame is one time step's snapshot of the coupled simulation.
type Frame struct {
	Time        float64
	Cond        Condition
	Alpha       float64 // nanoparticle activation fraction
	Params      Params
	ShearRate   float64 // reference shear rate the sample below is taken at
	ShearStress float64
	Viscosity   Viscosity
}

// Result holds the ordered frame sequence of one simulation run.
type Result struct {
	Frames  []Frame
	Metrics map[string]float64
	Steps   int
}

// Final returns the last frame. Results always contain at least the
// initial frame.
func (r *Result) Final() Frame {
	return r.Frames[len(r.Frames)-1]
}
