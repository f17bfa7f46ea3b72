package sensitivity

import (
	"fmt"

	"mudsim/internal/fluid"
)

// Extractor reduces a finished run to the scalar whose sensitivity is
// being measured.
type Extractor struct {
	Name string
	Fn   func(*fluid.Result) (float64, error)
}

// FinalYieldStress extracts τ₀ of the last frame.
func FinalYieldStress() Extractor {
	return Extractor{
		Name: "final_yield_stress",
		Fn: func(r *fluid.Result) (float64, error) {
			return r.Final().Params.YieldStress, nil
		},
	}
}

// FinalViscosity extracts the apparent viscosity of the last frame in
// Pa·s. It fails when the reference shear rate made the sample
// undefined, so the undefined sentinel never turns into a silent zero.
func FinalViscosity() Extractor {
	return Extractor{
		Name: "final_viscosity",
		Fn: func(r *fluid.Result) (float64, error) {
			v := r.Final().Viscosity
			if !v.Defined() {
				return 0, fmt.Errorf("%w: final viscosity undefined at shear rate %g",
					fluid.ErrInvalidInput, r.Final().ShearRate)
			}
			return v.PaS(), nil
		},
	}
}

// FinalActivation extracts α of the last frame.
func FinalActivation() Extractor {
	return Extractor{
		Name: "final_activation",
		Fn: func(r *fluid.Result) (float64, error) {
			return r.Final().Alpha, nil
		},
	}
}

// MeanStress extracts the average reference-shear stress over all
// frames.
func MeanStress() Extractor {
	return Extractor{
		Name: "mean_stress",
		Fn: func(r *fluid.Result) (float64, error) {
			sum := 0.0
			for _, f := range r.Frames {
				sum += f.ShearStress
			}
			return sum / float64(len(r.Frames)), nil
		},
	}
}

// ExtractorByName resolves the named extractors exposed to config files
// and the CLI.
func ExtractorByName(name string) (Extractor, error) {
	switch name {
	case "final_yield_stress":
		return FinalYieldStress(), nil
	case "final_viscosity":
		return FinalViscosity(), nil
	case "final_activation":
		return FinalActivation(), nil
	case "mean_stress":
		return MeanStress(), nil
	default:
		return Extractor{}, fmt.Errorf("%w: unknown extractor %q", fluid.ErrInvalidParameter, name)
	}
}
